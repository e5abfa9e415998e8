package resource

import (
	"database/sql"
	"fmt"
	"time"
)

// NewEnergyReadingRepository returns the repository for the energy_readings
// table. Consumption and generation pass through unvalidated: meters emit
// negative correction samples and rejecting them here would drop data.
func NewEnergyReadingRepository(db *sql.DB) *Repository[EnergyReading, EnergyReadingPayload] {
	return newRepository(db,
		"energy_readings",
		[]string{"device_id", "timestamp", "consumption_kwh", "generation_kwh"},
		scanEnergyReading,
		func(p EnergyReadingPayload) []any {
			return []any{
				p.DeviceID,
				formatTime(p.Timestamp),
				p.ConsumptionKWh,
				p.GenerationKWh,
			}
		},
		func(id int64, p EnergyReadingPayload) *EnergyReading {
			return &EnergyReading{ID: id, EnergyReadingPayload: p}
		},
		false,
	)
}

func scanEnergyReading(s rowScanner) (*EnergyReading, error) {
	var r EnergyReading
	var timestamp string

	if err := s.Scan(&r.ID, &r.DeviceID, &timestamp, &r.ConsumptionKWh, &r.GenerationKWh); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing reading timestamp: %w", err)
	}
	r.Timestamp = t
	return &r, nil
}
