package resource

import "database/sql"

// NewDeviceRepository returns the repository for the devices table.
//
// Devices are the one entity whose List reports an empty table as
// ErrNotFound; see the notFoundOnEmptyList flag on Repository.
func NewDeviceRepository(db *sql.DB) *Repository[Device, DevicePayload] {
	return newRepository(db,
		"devices",
		[]string{"user_id", "device_type", "description", "status"},
		scanDevice,
		func(p DevicePayload) []any {
			return []any{
				p.UserID,
				nullableString(p.DeviceType),
				nullableString(p.Description),
				nullableString(p.Status),
			}
		},
		func(id int64, p DevicePayload) *Device {
			return &Device{ID: id, DevicePayload: p}
		},
		true,
	)
}

func scanDevice(s rowScanner) (*Device, error) {
	var d Device
	var deviceType, description, status sql.NullString

	if err := s.Scan(&d.ID, &d.UserID, &deviceType, &description, &status); err != nil {
		return nil, err
	}

	d.DeviceType = fromNullString(deviceType)
	d.Description = fromNullString(description)
	d.Status = fromNullString(status)
	return &d, nil
}
