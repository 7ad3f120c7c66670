package media

import "time"

// Kind classifies an upload. Each kind gets its own directory under the
// uploads root and its own multipart field name on the wire.
type Kind string

// Supported media kinds.
const (
	KindPhoto           Kind = "photo"
	KindAudio           Kind = "audio"
	KindScreenshot      Kind = "screenshot"
	KindScreenRecording Kind = "screen_recording"
)

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPhoto, KindAudio, KindScreenshot, KindScreenRecording:
		return true
	}
	return false
}

// FieldName returns the multipart form field devices use for this kind.
func (k Kind) FieldName() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindAudio:
		return "audio"
	case KindScreenshot:
		return "screenshot"
	case KindScreenRecording:
		return "video"
	default:
		return "file"
	}
}

// Item is one indexed upload.
//
// Path is relative to the uploads root and uses forward slashes, so it
// doubles as the tail of the download URL. Filename preserves whatever
// name the device supplied; it is never used on disk.
type Item struct {
	ID          string    `json:"id"`
	DeviceID    string    `json:"device_id"`
	Kind        Kind      `json:"kind"`
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type,omitempty"`
	SourceIP    string    `json:"ip,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// SaveRequest carries the metadata of an incoming upload.
type SaveRequest struct {
	DeviceID    string
	Kind        Kind
	Filename    string
	ContentType string
	SourceIP    string
}

// Filter selects media items for listing.
type Filter struct {
	DeviceID string
	Kind     Kind
	Limit    int
	Offset   int
}

// ListResult is a page of media items plus paging metadata.
type ListResult struct {
	Items  []Item `json:"media"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Stats summarises stored media for monitoring.
type Stats struct {
	TotalItems int   `json:"total_items"`
	TotalBytes int64 `json:"total_bytes"`
}
