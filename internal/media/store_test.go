package media

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// setupTestRepo creates an in-memory media index with the current schema.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
	CREATE TABLE media_items (
		id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		filename TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		size_bytes INTEGER NOT NULL,
		source_ip TEXT,
		uploaded_at TEXT NOT NULL,
		content_type TEXT
	) STRICT;`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return NewSQLiteRepository(db)
}

// newTestStore returns a Store rooted in a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), setupTestRepo(t))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("writes file and indexes it", func(t *testing.T) {
		store := newTestStore(t)
		content := []byte("fake jpeg bytes")

		item, err := store.Save(ctx, SaveRequest{
			DeviceID:    "Cam 01",
			Kind:        KindPhoto,
			Filename:    "shot.JPG",
			ContentType: "image/jpeg",
			SourceIP:    "10.0.0.5",
		}, bytes.NewReader(content))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		if item.DeviceID != "Cam 01" {
			t.Errorf("DeviceID = %q, want original identifier preserved", item.DeviceID)
		}
		if !strings.HasPrefix(item.Path, "photo/cam-01/") {
			t.Errorf("Path = %q, want photo/cam-01/ prefix", item.Path)
		}
		if !strings.HasSuffix(item.Path, ".jpg") {
			t.Errorf("Path = %q, want .jpg suffix", item.Path)
		}
		if item.SizeBytes != int64(len(content)) {
			t.Errorf("SizeBytes = %d, want %d", item.SizeBytes, len(content))
		}
		if item.UploadedAt.IsZero() {
			t.Error("UploadedAt should be set")
		}

		stored, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(item.Path)))
		if err != nil {
			t.Fatalf("reading stored file: %v", err)
		}
		if !bytes.Equal(stored, content) {
			t.Error("stored file content does not match upload")
		}

		got, err := store.GetByID(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Filename != "shot.JPG" || got.ContentType != "image/jpeg" {
			t.Errorf("indexed item = %+v, want original filename and content type", got)
		}
	})

	t.Run("rejects empty device id", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Save(ctx, SaveRequest{Kind: KindPhoto, Filename: "a.jpg"}, bytes.NewReader(nil))
		if !errors.Is(err, ErrInvalidDeviceID) {
			t.Errorf("Save() error = %v, want ErrInvalidDeviceID", err)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Save(ctx, SaveRequest{DeviceID: "cam-01", Kind: "hologram"}, bytes.NewReader(nil))
		if !errors.Is(err, ErrInvalidKind) {
			t.Errorf("Save() error = %v, want ErrInvalidKind", err)
		}
	})

	t.Run("indexes every save", func(t *testing.T) {
		store := newTestStore(t)

		for i := 0; i < 2; i++ {
			if _, err := store.Save(ctx, SaveRequest{
				DeviceID: "cam-01",
				Kind:     KindScreenshot,
				Filename: "screen.png",
			}, bytes.NewReader([]byte("png"))); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
		}

		res, err := store.List(ctx, Filter{DeviceID: "cam-01"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("Total = %d, want 2", res.Total)
		}
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes file and index row", func(t *testing.T) {
		store := newTestStore(t)

		item, err := store.Save(ctx, SaveRequest{
			DeviceID: "cam-01",
			Kind:     KindAudio,
			Filename: "clip.wav",
		}, bytes.NewReader([]byte("wav")))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		if err := store.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		abs := filepath.Join(store.Root(), filepath.FromSlash(item.Path))
		if _, err := os.Stat(abs); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("stored file still present after delete (stat err = %v)", err)
		}
		if _, err := store.GetByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newTestStore(t)

		if err := store.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("tolerates file already gone", func(t *testing.T) {
		store := newTestStore(t)

		item, err := store.Save(ctx, SaveRequest{
			DeviceID: "cam-01",
			Kind:     KindAudio,
			Filename: "clip.wav",
		}, bytes.NewReader([]byte("wav")))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		abs := filepath.Join(store.Root(), filepath.FromSlash(item.Path))
		if err := os.Remove(abs); err != nil {
			t.Fatalf("removing file out of band: %v", err)
		}

		if err := store.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Delete() with missing file error = %v", err)
		}
		if _, err := store.GetByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("index row should be gone, GetByID() error = %v", err)
		}
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	base := time.Date(2026, 7, 10, 12, 0, 0, 0, time.UTC)
	seed := []Item{
		{ID: "m1", DeviceID: "cam-01", Kind: KindPhoto, Filename: "a.jpg", Path: "photo/cam-01/a.jpg", SizeBytes: 100, UploadedAt: base},
		{ID: "m2", DeviceID: "cam-01", Kind: KindAudio, Filename: "b.wav", Path: "audio/cam-01/b.wav", SizeBytes: 200, UploadedAt: base.Add(time.Minute)},
		{ID: "m3", DeviceID: "cam-02", Kind: KindPhoto, Filename: "c.jpg", Path: "photo/cam-02/c.jpg", SizeBytes: 300, UploadedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		if err := repo.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	t.Run("returns newest first", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 3 || len(res.Items) != 3 {
			t.Fatalf("Total = %d, Items = %d, want 3 and 3", res.Total, len(res.Items))
		}
		if res.Items[0].ID != "m3" || res.Items[2].ID != "m1" {
			t.Errorf("order = [%s %s %s], want newest first", res.Items[0].ID, res.Items[1].ID, res.Items[2].ID)
		}
	})

	t.Run("filters by device", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{DeviceID: "cam-01"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("Total = %d, want 2", res.Total)
		}
	})

	t.Run("filters by kind", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{Kind: KindPhoto})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 2 {
			t.Errorf("Total = %d, want 2", res.Total)
		}
		for _, item := range res.Items {
			if item.Kind != KindPhoto {
				t.Errorf("Kind = %q, want photo", item.Kind)
			}
		}
	})

	t.Run("pages results", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Total != 3 {
			t.Errorf("Total = %d, want 3 (total ignores paging)", res.Total)
		}
		if len(res.Items) != 1 || res.Items[0].ID != "m2" {
			t.Errorf("page = %+v, want just m2", res.Items)
		}
	})

	t.Run("no matches returns empty slice", func(t *testing.T) {
		res, err := repo.List(ctx, Filter{DeviceID: "nope"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if res.Items == nil {
			t.Error("Items should be an empty slice, not nil")
		}
		if res.Total != 0 {
			t.Errorf("Total = %d, want 0", res.Total)
		}
	})
}

func TestRepository_Stats(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalItems != 0 || stats.TotalBytes != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}

	items := []Item{
		{ID: "m1", DeviceID: "cam-01", Kind: KindPhoto, Filename: "a.jpg", Path: "photo/cam-01/a.jpg", SizeBytes: 100, UploadedAt: time.Now().UTC()},
		{ID: "m2", DeviceID: "cam-02", Kind: KindAudio, Filename: "b.wav", Path: "audio/cam-02/b.wav", SizeBytes: 250, UploadedAt: time.Now().UTC()},
	}
	for i := range items {
		if err := repo.Insert(ctx, &items[i]); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", stats.TotalItems)
	}
	if stats.TotalBytes != 350 {
		t.Errorf("TotalBytes = %d, want 350", stats.TotalBytes)
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces to hyphens", input: "Cam 01", want: "cam-01"},
		{name: "underscores to hyphens", input: "dev_x", want: "dev-x"},
		{name: "strips path separators", input: "../../etc", want: "etc"},
		{name: "nothing safe left", input: "###", want: "device"},
		{name: "already clean", input: "abc-9", want: "abc-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeSegment(tt.input); got != tt.want {
				t.Errorf("sanitizeSegment(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStoredExt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "uppercase normalised", input: "shot.JPG", want: ".jpg"},
		{name: "no extension", input: "noext", want: ".bin"},
		{name: "unsafe characters", input: "weird.j pg", want: ".bin"},
		{name: "double extension keeps last", input: "archive.tar.gz", want: ".gz"},
		{name: "bare dot", input: "trick.", want: ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storedExt(tt.input); got != tt.want {
				t.Errorf("storedExt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
