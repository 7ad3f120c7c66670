package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage layout constants.
const (
	// dirPermissions is the permission mode for upload directories.
	dirPermissions = 0750

	// filePermissions is the permission mode for stored media files.
	filePermissions = 0600

	// storedNameLayout names files by upload instant; a short unique
	// suffix keeps same-second uploads apart.
	storedNameLayout = "20060102T150405Z"
)

// Logger is the minimal logging interface the store needs.
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

// Store writes uploads to disk under a single root directory and records
// them in the Repository. See the package documentation for the layout.
type Store struct {
	root   string
	repo   Repository
	logger Logger
}

// NewStore creates the uploads root if necessary and returns a Store.
func NewStore(root string, repo Repository) (*Store, error) {
	if err := os.MkdirAll(root, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating uploads root: %w", err)
	}
	return &Store{
		root:   root,
		repo:   repo,
		logger: noopLogger{},
	}, nil
}

// SetLogger configures operational logging. Passing nil is a no-op.
func (s *Store) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Root returns the uploads root directory.
func (s *Store) Root() string {
	return s.root
}

// Save streams one upload to disk and indexes it. The stored name is
// generated; the device never chooses where its bytes land. The file is
// removed again if indexing fails.
func (s *Store) Save(ctx context.Context, req SaveRequest, src io.Reader) (*Item, error) {
	if req.DeviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}

	now := time.Now().UTC()
	name := now.Format(storedNameLayout) + "_" + uuid.NewString()[:8] + storedExt(req.Filename)
	relPath := filepath.Join(string(req.Kind), sanitizeSegment(req.DeviceID), name)
	absPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
	if err != nil {
		return nil, fmt.Errorf("creating media file: %w", err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.removeFile(absPath)
		return nil, fmt.Errorf("writing media file: %w", err)
	}

	item := &Item{
		ID:          uuid.New().String(),
		DeviceID:    req.DeviceID,
		Kind:        req.Kind,
		Filename:    req.Filename,
		Path:        filepath.ToSlash(relPath),
		SizeBytes:   size,
		ContentType: req.ContentType,
		SourceIP:    req.SourceIP,
		UploadedAt:  now,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		s.removeFile(absPath)
		return nil, err
	}

	s.logger.Info("media stored",
		"media_id", item.ID,
		"device_id", item.DeviceID,
		"kind", string(item.Kind),
		"bytes", size,
	)
	return item, nil
}

// Delete removes the stored file and its index row. A file that has
// already vanished from disk does not block removal of the row.
func (s *Store) Delete(ctx context.Context, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	abs := filepath.Join(s.root, filepath.FromSlash(item.Path))
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing media file: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("media deleted", "media_id", id, "device_id", item.DeviceID)
	return nil
}

// GetByID returns the indexed item with the given ID.
func (s *Store) GetByID(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns indexed items matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter Filter) (*ListResult, error) {
	return s.repo.List(ctx, filter)
}

// Stats returns item and byte totals for monitoring.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// removeFile is best-effort cleanup on error paths.
func (s *Store) removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("orphaned media file left on disk", "path", path, "error", err)
	}
}

// sanitizeSegment reduces an identifier to a filesystem-safe directory
// name: lowercase, spaces and underscores become hyphens, anything else
// outside [a-z0-9-] is dropped.
func sanitizeSegment(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "device"
	}
	return out
}

// storedExt returns a safe lowercase extension for the stored file,
// falling back to .bin when the client-supplied name has none we trust.
func storedExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 10 {
		return ".bin"
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".bin"
		}
	}
	return ext
}
