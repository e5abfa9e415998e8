package resource

import (
	"database/sql"
	"fmt"
	"time"
)

// NewAlertRepository returns the repository for the alerts table.
func NewAlertRepository(db *sql.DB) *Repository[Alert, AlertPayload] {
	return newRepository(db,
		"alerts",
		[]string{"user_id", "timestamp", "message", "alert_type"},
		scanAlert,
		func(p AlertPayload) []any {
			return []any{
				p.UserID,
				formatTime(p.Timestamp),
				nullableString(p.Message),
				nullableString(p.AlertType),
			}
		},
		func(id int64, p AlertPayload) *Alert {
			return &Alert{ID: id, AlertPayload: p}
		},
		false,
	)
}

func scanAlert(s rowScanner) (*Alert, error) {
	var a Alert
	var timestamp string
	var message, alertType sql.NullString

	if err := s.Scan(&a.ID, &a.UserID, &timestamp, &message, &alertType); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing alert timestamp: %w", err)
	}
	a.Timestamp = t
	a.Message = fromNullString(message)
	a.AlertType = fromNullString(alertType)
	return &a, nil
}
