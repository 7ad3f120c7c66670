package registry

import "time"

// Status values with meaning to the registry itself. Devices are free to
// report anything; these two are the documented defaults.
const (
	// StatusUnknown is reported for devices that have registered but
	// never sent a status update.
	StatusUnknown = "unknown"

	// StatusIdle is assumed when a status update omits the status field.
	StatusIdle = "idle"
)

// Device is a registered device's identity and liveness record.
//
// RegisteredAt is reset every time the device registers; LastSeen moves
// forward on every interaction the device initiates (registration,
// status report, command poll, media upload).
type Device struct {
	ID           string    `json:"device_id"`
	RegisteredAt time.Time `json:"registered_at"`
	LastSeen     time.Time `json:"last_seen"`
	SourceIP     string    `json:"ip,omitempty"`
}

// StatusRecord is the most recent self-reported state of a device. It is
// kept independently of registration so reports survive a device being
// re-registered and are accepted even from devices the registry does not
// know about.
type StatusRecord struct {
	Status          string    `json:"status"`
	Recording       bool      `json:"recording"`
	ScreenRecording bool      `json:"screen_recording"`
	SourceIP        string    `json:"ip,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StatusUpdate carries the client-supplied fields of a status report.
// Zero values match the wire defaults: an update that says nothing
// describes an idle device that is not recording.
type StatusUpdate struct {
	Status          string `json:"status"`
	Recording       bool   `json:"recording"`
	ScreenRecording bool   `json:"screen_recording"`
}

// withDefaults fills unset fields with their documented defaults.
func (u StatusUpdate) withDefaults() StatusUpdate {
	if u.Status == "" {
		u.Status = StatusIdle
	}
	return u
}

// DeviceSnapshot is one row of the admin device listing: the device
// record joined with its latest status and current queue depth, captured
// atomically.
type DeviceSnapshot struct {
	ID              string    `json:"device_id"`
	RegisteredAt    time.Time `json:"registered_at"`
	LastSeen        time.Time `json:"last_seen"`
	Status          string    `json:"status"`
	Recording       bool      `json:"recording"`
	ScreenRecording bool      `json:"screen_recording"`
	PendingCommands int       `json:"pending_commands"`
	SourceIP        string    `json:"ip"`
}

// PollResult is the outcome of a command poll: the commands drained from
// the queue (oldest first) and the moment they were handed over.
type PollResult struct {
	DeviceID  string
	Commands  []string
	Count     int
	Timestamp time.Time
}

// Stats summarises registry contents for monitoring.
type Stats struct {
	TotalDevices    int            `json:"total_devices"`
	PendingCommands int            `json:"pending_commands"`
	ByStatus        map[string]int `json:"by_status"`
}
