package resource

import (
	"database/sql"
	"fmt"
	"time"
)

// NewAutomationRepository returns the repository for the automations table.
func NewAutomationRepository(db *sql.DB) *Repository[Automation, AutomationPayload] {
	return newRepository(db,
		"automations",
		[]string{"device_id", "timestamp", "action", "reason"},
		scanAutomation,
		func(p AutomationPayload) []any {
			return []any{
				p.DeviceID,
				nullableTime(p.Timestamp),
				nullableString(p.Action),
				nullableString(p.Reason),
			}
		},
		func(id int64, p AutomationPayload) *Automation {
			return &Automation{ID: id, AutomationPayload: p}
		},
		false,
	)
}

func scanAutomation(s rowScanner) (*Automation, error) {
	var a Automation
	var timestamp, action, reason sql.NullString

	if err := s.Scan(&a.ID, &a.DeviceID, &timestamp, &action, &reason); err != nil {
		return nil, err
	}

	if timestamp.Valid {
		t, err := time.Parse(time.RFC3339, timestamp.String)
		if err != nil {
			return nil, fmt.Errorf("parsing automation timestamp: %w", err)
		}
		a.Timestamp = &t
	}
	a.Action = fromNullString(action)
	a.Reason = fromNullString(reason)
	return &a, nil
}
