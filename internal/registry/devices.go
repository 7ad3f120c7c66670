package registry

import "time"

// deviceStore tracks registered devices. It performs no locking of its
// own; every method must be called with the Coordinator's mutex held.
type deviceStore struct {
	devices map[string]*Device
}

func newDeviceStore() *deviceStore {
	return &deviceStore{devices: make(map[string]*Device)}
}

// register creates or replaces the record for id. Replacement resets
// both timestamps and the source address; anything the previous record
// carried is discarded.
func (s *deviceStore) register(id, sourceIP string, now time.Time) *Device {
	dev := &Device{
		ID:           id,
		RegisteredAt: now,
		LastSeen:     now,
		SourceIP:     sourceIP,
	}
	s.devices[id] = dev
	return dev
}

func (s *deviceStore) exists(id string) bool {
	_, ok := s.devices[id]
	return ok
}

// touch moves LastSeen forward. Unknown devices are left alone: a
// heartbeat never creates a registration.
func (s *deviceStore) touch(id string, now time.Time) bool {
	dev, ok := s.devices[id]
	if !ok {
		return false
	}
	dev.LastSeen = now
	return true
}

// refreshSource records the address a device most recently reported
// from. Empty addresses are ignored so a proxy-stripped request cannot
// blank out a known one.
func (s *deviceStore) refreshSource(id, sourceIP string) {
	if sourceIP == "" {
		return
	}
	if dev, ok := s.devices[id]; ok {
		dev.SourceIP = sourceIP
	}
}

// list returns value copies of every record. Order is unspecified.
func (s *deviceStore) list() []Device {
	out := make([]Device, 0, len(s.devices))
	for _, dev := range s.devices {
		out = append(out, *dev)
	}
	return out
}
