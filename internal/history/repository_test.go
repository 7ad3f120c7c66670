package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// setupTestRepo creates an in-memory command log.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
	CREATE TABLE command_log (
		id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		command TEXT NOT NULL,
		event TEXT NOT NULL,
		source TEXT,
		created_at TEXT NOT NULL
	) STRICT;`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return NewSQLiteRepository(db)
}

func TestRepository_Record(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	entry := &Entry{
		DeviceID: "cam-01",
		Command:  "take_photo",
		Event:    EventQueued,
		Source:   "api",
	}
	if err := repo.Record(ctx, entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("Record() should generate an ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Record() should set CreatedAt")
	}

	res, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("Total = %d, want 1", res.Total)
	}
	got := res.Entries[0]
	if got.DeviceID != "cam-01" || got.Command != "take_photo" || got.Event != EventQueued || got.Source != "api" {
		t.Errorf("entry = %+v, want recorded fields back", got)
	}
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	base := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	seed := []Entry{
		{ID: "e1", DeviceID: "cam-01", Command: "take_photo", Event: EventQueued, Source: "api", CreatedAt: base},
		{ID: "e2", DeviceID: "cam-01", Command: "take_photo", Event: EventDelivered, CreatedAt: base.Add(time.Minute)},
		{ID: "e3", DeviceID: "cam-02", Command: "reboot", Event: EventQueued, Source: "mqtt", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "e4", DeviceID: "cam-02", Event: EventCleared, Source: "api", CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		if err := repo.Record(ctx, &seed[i]); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	t.Run("returns most recent first", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 4 {
			t.Fatalf("Total = %d, want 4", res.Total)
		}
		if res.Entries[0].ID != "e4" || res.Entries[3].ID != "e1" {
			t.Errorf("order = [%s ... %s], want newest first", res.Entries[0].ID, res.Entries[3].ID)
		}
	})

	t.Run("filters by device", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{DeviceID: "cam-02"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("Total = %d, want 2", res.Total)
		}
	})

	t.Run("filters by event", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{Event: EventQueued})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("Total = %d, want 2", res.Total)
		}
		for _, entry := range res.Entries {
			if entry.Event != EventQueued {
				t.Errorf("Event = %q, want queued", entry.Event)
			}
		}
	})

	t.Run("pages results", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 4 {
			t.Errorf("Total = %d, want 4 (total ignores paging)", res.Total)
		}
		if len(res.Entries) != 2 || res.Entries[0].ID != "e2" {
			t.Errorf("page = %+v, want e2 then e1", res.Entries)
		}
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{DeviceID: "nope"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Entries == nil {
			t.Error("Entries should be an empty slice, not nil")
		}
	})
}
