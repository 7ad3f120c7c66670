package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for the media index.
type Repository interface {
	Insert(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}

// SQLiteRepository indexes media items in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new media index repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert records a new media item.
func (r *SQLiteRepository) Insert(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO media_items (id, device_id, kind, filename, path, size_bytes, content_type, source_ip, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.DeviceID, string(item.Kind), item.Filename, item.Path, item.SizeBytes,
		nullableString(item.ContentType), nullableString(item.SourceIP),
		item.UploadedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting media item: %w", err)
	}
	return nil
}

// GetByID returns the media item with the given ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, device_id, kind, filename, path, size_bytes, content_type, source_ip, uploaded_at
		 FROM media_items WHERE id = ?`, id)

	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("media item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting media item: %w", err)
	}
	return item, nil
}

// List returns media items matching the filter, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	// Clamp limit.
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for media queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Build WHERE clause dynamically.
	var conditions []string
	var args []any

	if filter.DeviceID != "" {
		conditions = append(conditions, "device_id = ?")
		args = append(args, filter.DeviceID)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Get total count.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM media_items %s", where) //nolint:gosec // WHERE built from parameterised conditions, not user input
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting media items: %w", err)
	}

	// Get paginated results.
	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		"SELECT id, device_id, kind, filename, path, size_bytes, content_type, source_ip, uploaded_at FROM media_items %s ORDER BY uploaded_at DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying media items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning media item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating media items: %w", err)
	}

	if items == nil {
		items = []Item{}
	}

	return &ListResult{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Delete removes the index row for id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM media_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting media item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("media item %s: %w", id, ErrNotFound)
	}
	return nil
}

// Stats returns item and byte totals across the whole index.
func (r *SQLiteRepository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM media_items",
	).Scan(&stats.TotalItems, &stats.TotalBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("reading media stats: %w", err)
	}
	return stats, nil
}

// scanItem reads one media row via the supplied scan function, so the
// same column handling serves both QueryRow and Query paths.
func scanItem(scan func(dest ...any) error) (*Item, error) {
	var item Item
	var kind string
	var contentType, sourceIP sql.NullString
	var uploadedAt string

	if err := scan(&item.ID, &item.DeviceID, &kind, &item.Filename, &item.Path,
		&item.SizeBytes, &contentType, &sourceIP, &uploadedAt); err != nil {
		return nil, err
	}

	item.Kind = Kind(kind)
	if contentType.Valid {
		item.ContentType = contentType.String
	}
	if sourceIP.Valid {
		item.SourceIP = sourceIP.String
	}

	t, err := time.Parse(time.RFC3339, uploadedAt)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05Z", uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing media timestamp %q: %w", uploadedAt, err)
		}
	}
	item.UploadedAt = t

	return &item, nil
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
