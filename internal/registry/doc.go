// Package registry implements the in-memory device coordination core of
// FieldHub: which devices exist, what commands are waiting for them, and
// what each device last reported about itself.
//
// # Architecture
//
// The package is built around a single Coordinator that composes three
// purpose-specific stores behind one lock:
//
//	┌─────────────────────────────────────────────────────┐
//	│                     Coordinator                     │
//	│                  (single sync.RWMutex)              │
//	│                                                     │
//	│  ┌─────────────┐  ┌──────────────┐  ┌────────────┐  │
//	│  │ deviceStore │  │ commandStore │  │statusStore │  │
//	│  │             │  │              │  │            │  │
//	│  │ identity +  │  │ per-device   │  │ last       │  │
//	│  │ liveness    │  │ FIFO queues  │  │ reported   │  │
//	│  │ timestamps  │  │              │  │ state      │  │
//	│  └─────────────┘  └──────────────┘  └────────────┘  │
//	└─────────────────────────────────────────────────────┘
//	        ▲                   ▲                  ▲
//	        │                   │                  │
//	   register /          send / poll /      update_status
//	   heartbeat           clear
//
// The stores themselves are plain structs with no locking of their own;
// every method on them must be called with the Coordinator's mutex held.
// Composing them this way keeps each concern small while guaranteeing
// that cross-store operations (registration creating a queue, a poll
// touching liveness before draining, the admin listing joining all
// three) are observed atomically.
//
// # Delivery model
//
// Commands are pull-only. The server never pushes to a device: an admin
// queues a command, and the device collects it on its next poll. A poll
// drains the whole queue in one atomic read-and-clear, so each command is
// delivered at most once and in the order it was queued. There are no
// acknowledgements; a command handed to a poll response is gone from the
// queue regardless of what the device does with it.
//
// # Lifecycle
//
// Registration is create-or-replace: a device re-registering after a
// crash gets fresh registration metadata but keeps any commands that
// were queued while it was away. Status reports are accepted from
// unknown devices without registering them, which lets devices keep
// reporting across a server restart even though the registry itself is
// not persisted.
//
// # Thread safety
//
// All Coordinator methods are safe for concurrent use. Read-only
// operations take the read lock; anything that mutates takes the write
// lock. Returned values are copies and never alias internal state.
package registry
