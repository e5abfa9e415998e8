// Package mqtt wraps paho.mqtt.golang for the Ecosfera broker link.
//
// The broker carries two flows: meters publish energy readings that Core
// ingests into the database, and Core publishes persisted alerts back out
// so dashboards can react without polling the HTTP API.
//
// The client tracks its subscriptions and restores them automatically
// after a reconnect. All methods are safe for concurrent use.
package mqtt
