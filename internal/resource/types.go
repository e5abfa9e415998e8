package resource

import "time"

// UserPayload carries the mutable fields of a user, as received from the
// boundary layer. All fields are optional and stored as NULL when absent.
type UserPayload struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

// User is a registered account that owns devices and receives alerts.
type User struct {
	ID int64 `json:"id"`
	UserPayload
}

// DevicePayload carries the mutable fields of a device.
type DevicePayload struct {
	UserID      int64   `json:"userId"`
	DeviceType  *string `json:"deviceType"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Device is a monitored appliance or sensor owned by a user.
type Device struct {
	ID int64 `json:"id"`
	DevicePayload
}

// AutomationPayload carries the mutable fields of an automation event.
// The timestamp is optional: imported events may predate clock sync.
type AutomationPayload struct {
	DeviceID  int64      `json:"deviceId"`
	Timestamp *time.Time `json:"timestamp"`
	Action    *string    `json:"action"`
	Reason    *string    `json:"reason"`
}

// Automation records an action taken on a device and why.
type Automation struct {
	ID int64 `json:"id"`
	AutomationPayload
}

// EnergyReadingPayload carries the mutable fields of an energy reading.
// Consumption and generation are stored as given; negative values are
// accepted (meters report corrections as negatives).
type EnergyReadingPayload struct {
	DeviceID       int64     `json:"deviceId"`
	Timestamp      time.Time `json:"timestamp"`
	ConsumptionKWh float64   `json:"consumptionKWh"`
	GenerationKWh  float64   `json:"generationKWh"`
}

// EnergyReading is one consumption/generation sample from a device.
type EnergyReading struct {
	ID int64 `json:"id"`
	EnergyReadingPayload
}

// AlertPayload carries the mutable fields of an alert.
type AlertPayload struct {
	UserID    int64     `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Message   *string   `json:"message"`
	AlertType *string   `json:"alertType"`
}

// Alert is a notification addressed to a user.
type Alert struct {
	ID int64 `json:"id"`
	AlertPayload
}
