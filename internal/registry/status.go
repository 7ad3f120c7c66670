package registry

import "time"

// statusStore keeps the latest status report per device identifier. It
// performs no locking of its own; every method must be called with the
// Coordinator's mutex held.
//
// The store accepts reports for identifiers the registry has never seen.
// That is intentional: devices keep reporting across server restarts,
// and their state should not vanish just because the in-memory registry
// did.
type statusStore struct {
	records map[string]*StatusRecord
}

func newStatusStore() *statusStore {
	return &statusStore{records: make(map[string]*StatusRecord)}
}

// update unconditionally replaces the record for id and returns a copy
// of what was stored.
func (s *statusStore) update(id string, update StatusUpdate, sourceIP string, now time.Time) StatusRecord {
	update = update.withDefaults()
	rec := &StatusRecord{
		Status:          update.Status,
		Recording:       update.Recording,
		ScreenRecording: update.ScreenRecording,
		SourceIP:        sourceIP,
		UpdatedAt:       now,
	}
	s.records[id] = rec
	return *rec
}

// get returns a copy of the record for id, if one exists.
func (s *statusStore) get(id string) (StatusRecord, bool) {
	rec, ok := s.records[id]
	if !ok {
		return StatusRecord{}, false
	}
	return *rec, true
}
