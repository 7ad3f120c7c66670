package registry

import (
	"fmt"
	"sync"
	"time"
)

// Logger is the minimal logging interface the coordinator needs.
// *slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is configured.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Coordinator owns the device registry, the per-device command queues,
// and the per-device status records. A single RWMutex guards all three
// stores, so every operation is indivisible: no caller ever observes a
// registration without its queue, or a drain that lost a concurrent
// send.
//
// State lives purely in memory. A restart empties the registry; devices
// are expected to re-register and carry on.
type Coordinator struct {
	mu       sync.RWMutex
	devices  *deviceStore
	commands *commandStore
	statuses *statusStore

	logger Logger
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		devices:  newDeviceStore(),
		commands: newCommandStore(),
		statuses: newStatusStore(),
		logger:   noopLogger{},
	}
}

// SetLogger configures operational logging. Passing nil is a no-op.
func (c *Coordinator) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// RegisterDevice creates or replaces the registration for id and
// guarantees the device has a command queue. Re-registration resets the
// registration metadata but preserves queued commands: anything sent
// while the device was away is still delivered on its next poll.
func (c *Coordinator) RegisterDevice(id, sourceIP string) (Device, error) {
	if id == "" {
		return Device{}, ErrInvalidDeviceID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dev := c.devices.register(id, sourceIP, time.Now().UTC())
	c.commands.ensure(id)

	c.logger.Info("device registered", "device_id", id, "ip", sourceIP, "pending", c.commands.pending(id))
	return *dev, nil
}

// UpdateStatus records a status report. Reports are accepted even from
// devices that are not registered, without registering them; that keeps
// long-running devices reporting across a server restart. For registered
// devices the report also counts as a heartbeat and refreshes the source
// address.
func (c *Coordinator) UpdateStatus(id string, update StatusUpdate, sourceIP string) (StatusRecord, error) {
	if id == "" {
		return StatusRecord{}, ErrInvalidDeviceID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	rec := c.statuses.update(id, update, sourceIP, now)
	if c.devices.touch(id, now) {
		c.devices.refreshSource(id, sourceIP)
	}

	c.logger.Debug("status updated",
		"device_id", id,
		"status", rec.Status,
		"recording", rec.Recording,
		"screen_recording", rec.ScreenRecording,
	)
	return rec, nil
}

// PollCommands drains the device's queue in one atomic read-and-clear
// and counts as a heartbeat. Polling with an empty queue is the normal
// idle case and returns an empty (never nil) command slice. Unregistered
// devices cannot poll; they must register first.
func (c *Coordinator) PollCommands(id string) (PollResult, error) {
	if id == "" {
		return PollResult{}, ErrInvalidDeviceID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.devices.exists(id) {
		return PollResult{}, fmt.Errorf("poll %q: %w", id, ErrDeviceNotFound)
	}

	now := time.Now().UTC()
	c.devices.touch(id, now)
	commands := c.commands.drain(id)

	if len(commands) > 0 {
		c.logger.Info("commands delivered", "device_id", id, "count", len(commands))
	}

	return PollResult{
		DeviceID:  id,
		Commands:  commands,
		Count:     len(commands),
		Timestamp: now,
	}, nil
}

// SendCommand appends a command to the device's queue and returns the
// new queue depth. Sends do not deduplicate; queueing the same command
// twice delivers it twice. The device must be registered.
func (c *Coordinator) SendCommand(id, command string) (int, error) {
	if id == "" {
		return 0, ErrInvalidDeviceID
	}
	if command == "" {
		return 0, ErrInvalidCommand
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.devices.exists(id) {
		return 0, fmt.Errorf("send to %q: %w", id, ErrDeviceNotFound)
	}

	pending := c.commands.enqueue(id, command)
	c.logger.Info("command queued", "device_id", id, "command", command, "pending", pending)
	return pending, nil
}

// ClearCommands discards everything queued for the device and reports
// how many commands were dropped. The device must be registered.
func (c *Coordinator) ClearCommands(id string) (int, error) {
	if id == "" {
		return 0, ErrInvalidDeviceID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.devices.exists(id) {
		return 0, fmt.Errorf("clear %q: %w", id, ErrDeviceNotFound)
	}

	removed := c.commands.clear(id)
	c.logger.Info("commands cleared", "device_id", id, "removed", removed)
	return removed, nil
}

// TouchLastSeen refreshes the device's last-seen timestamp and reports
// whether the device is registered. Unknown devices are left untouched;
// a heartbeat never creates a registration.
func (c *Coordinator) TouchLastSeen(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.devices.touch(id, time.Now().UTC())
}

// Exists reports whether id is currently registered.
func (c *Coordinator) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices.exists(id)
}

// PendingCount reports the device's queue depth. Unknown devices report
// zero.
func (c *Coordinator) PendingCount(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands.pending(id)
}

// ListDevices returns a point-in-time snapshot of every registered
// device joined with its latest status and queue depth. Devices that
// have never reported status appear as StatusUnknown. Status records for
// identifiers that never registered are not listed. Order is
// unspecified.
func (c *Coordinator) ListDevices() []DeviceSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	devices := c.devices.list()
	snapshots := make([]DeviceSnapshot, 0, len(devices))
	for _, dev := range devices {
		snap := DeviceSnapshot{
			ID:              dev.ID,
			RegisteredAt:    dev.RegisteredAt,
			LastSeen:        dev.LastSeen,
			Status:          StatusUnknown,
			PendingCommands: c.commands.pending(dev.ID),
			SourceIP:        dev.SourceIP,
		}
		if rec, ok := c.statuses.get(dev.ID); ok {
			snap.Status = rec.Status
			snap.Recording = rec.Recording
			snap.ScreenRecording = rec.ScreenRecording
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// GetStats returns registry counters for monitoring endpoints.
func (c *Coordinator) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{ByStatus: make(map[string]int)}
	for _, dev := range c.devices.list() {
		stats.TotalDevices++
		stats.PendingCommands += c.commands.pending(dev.ID)

		status := StatusUnknown
		if rec, ok := c.statuses.get(dev.ID); ok {
			status = rec.Status
		}
		stats.ByStatus[status]++
	}
	return stats
}
