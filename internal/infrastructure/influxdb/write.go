package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEnergyReading mirrors one persisted reading into the bucket.
//
// The write is non-blocking; points are batched and flushed by the client.
// Tagged by device so dashboards can slice per meter.
func (c *Client) WriteEnergyReading(id, deviceID int64, consumptionKWh, generationKWh float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"energy_readings",
		map[string]string{
			"device_id": strconv.FormatInt(deviceID, 10),
		},
		map[string]interface{}{
			"reading_id":      id,
			"consumption_kwh": consumptionKWh,
			"generation_kwh":  generationKWh,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}
