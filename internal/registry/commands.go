package registry

// commandStore holds one FIFO command queue per device. It performs no
// locking of its own; every method must be called with the Coordinator's
// mutex held.
//
// Queue existence is deliberately decoupled from device existence: the
// Coordinator decides who may have a queue, the store just keeps them.
// Queues survive re-registration and are never deleted, only emptied.
type commandStore struct {
	queues map[string][]string
}

func newCommandStore() *commandStore {
	return &commandStore{queues: make(map[string][]string)}
}

// ensure guarantees a queue exists for id without disturbing one that
// already does.
func (s *commandStore) ensure(id string) {
	if _, ok := s.queues[id]; !ok {
		s.queues[id] = nil
	}
}

// enqueue appends command and returns the new queue depth. Duplicates
// are allowed; every send is its own delivery.
func (s *commandStore) enqueue(id, command string) int {
	s.queues[id] = append(s.queues[id], command)
	return len(s.queues[id])
}

// drain empties the queue and returns its contents oldest first. The
// returned slice is owned by the caller; the store keeps no reference to
// it. An empty queue drains to an empty (never nil) slice.
func (s *commandStore) drain(id string) []string {
	queue := s.queues[id]
	if len(queue) == 0 {
		return []string{}
	}
	s.queues[id] = nil
	return queue
}

// pending reports queue depth. Devices without a queue report zero.
func (s *commandStore) pending(id string) int {
	return len(s.queues[id])
}

// clear discards all queued commands and reports how many were dropped.
func (s *commandStore) clear(id string) int {
	removed := len(s.queues[id])
	s.queues[id] = nil
	return removed
}
