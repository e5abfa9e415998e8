// Package telemetry ingests meter readings from the MQTT broker.
//
// Meters publish JSON payloads on ecosfera/readings/{deviceId}; the
// ingestor validates each payload, persists it through the energy
// repository and optionally mirrors it into InfluxDB. The device key in
// the topic is authoritative and overrides any deviceId in the body.
package telemetry
