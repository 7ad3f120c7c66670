package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteHeartbeat writes a device activity measurement to InfluxDB.
//
// This is the primary method for recording device liveness. Every
// registry interaction (register, poll, status report) produces one
// heartbeat point, giving a per-device activity timeline.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Unique identifier for the device (e.g., "cam-entrance-01")
//   - operation: The interaction type (e.g., "register", "poll", "status")
//
// Example:
//
//	client.WriteHeartbeat("cam-entrance-01", "poll")
//	client.WriteHeartbeat("sensor-02", "status")
func (c *Client) WriteHeartbeat(deviceID string, operation string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_heartbeat",
		map[string]string{
			"device_id": deviceID,
			"operation": operation,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteQueueDepth writes a command queue depth measurement.
//
// Used for tracking how far devices lag behind their queued commands.
// Recorded when commands are queued and when a poll drains the queue.
//
// Parameters:
//   - deviceID: Device identifier
//   - depth: Number of commands pending after the operation
func (c *Client) WriteQueueDepth(deviceID string, depth int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"command_queue",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"depth": depth,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteUploadSize writes a media upload measurement.
//
// Used for tracking ingestion volume per device and media kind.
//
// Parameters:
//   - deviceID: Device identifier
//   - kind: Media kind (e.g., "photo", "audio", "screenshot")
//   - sizeBytes: Size of the stored file in bytes
func (c *Client) WriteUploadSize(deviceID string, kind string, sizeBytes int64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"media_upload",
		map[string]string{
			"device_id": deviceID,
			"kind":      kind,
		},
		map[string]interface{}{
			"size_bytes": sizeBytes,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "hub-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
