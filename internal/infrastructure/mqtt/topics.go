package mqtt

import (
	"fmt"
	"strconv"
	"strings"
)

// TopicPrefix is the base for all Ecosfera topics.
//
// Scheme:
//
//	ecosfera/readings/{deviceId}  meter telemetry into Core
//	ecosfera/alerts/{userId}      persisted alerts out of Core
const TopicPrefix = "ecosfera"

// Topics provides builders for Ecosfera MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// Readings returns the telemetry topic for one device.
//
// Example: ecosfera/readings/42
func (Topics) Readings(deviceID int64) string {
	return fmt.Sprintf("%s/readings/%d", TopicPrefix, deviceID)
}

// AllReadings returns a pattern matching telemetry from every device.
//
// Pattern: ecosfera/readings/+
func (Topics) AllReadings() string {
	return TopicPrefix + "/readings/+"
}

// Alerts returns the alert topic for one user.
//
// Example: ecosfera/alerts/7
func (Topics) Alerts(userID int64) string {
	return fmt.Sprintf("%s/alerts/%d", TopicPrefix, userID)
}

// Status returns the client online/offline status topic.
//
// Example: ecosfera/status
func (Topics) Status() string {
	return TopicPrefix + "/status"
}

// ReadingDeviceID extracts the device key from a readings topic.
// Returns an error when the topic does not match ecosfera/readings/{deviceId}.
func ReadingDeviceID(topic string) (int64, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix || parts[1] != "readings" {
		return 0, fmt.Errorf("mqtt: not a readings topic: %q", topic)
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("mqtt: invalid device id in topic %q", topic)
	}
	return id, nil
}
