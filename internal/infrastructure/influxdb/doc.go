// Package influxdb mirrors energy readings into InfluxDB for time-series
// queries and Grafana dashboards.
//
// SQLite stays the system of record; the mirror is optional and writes
// are non-blocking, so a slow or absent InfluxDB never delays ingestion
// or the HTTP API.
package influxdb
