// Package media stores files uploaded by devices and keeps a queryable
// index of them.
//
// # Architecture
//
// Two halves work together:
//
//	┌────────────────────────────────────────────────┐
//	│                     Store                      │
//	│                                                │
//	│  ┌──────────────────┐   ┌───────────────────┐  │
//	│  │   filesystem     │   │    Repository     │  │
//	│  │                  │   │                   │  │
//	│  │ <root>/<kind>/   │   │ media_items table │  │
//	│  │   <device>/      │   │ (SQLite index)    │  │
//	│  │     <file>       │   │                   │  │
//	│  └──────────────────┘   └───────────────────┘  │
//	└────────────────────────────────────────────────┘
//
// Uploaded bytes land on disk under the uploads root, laid out by media
// kind and device; the repository records one row per file so the admin
// API can list, page, and delete without walking directories.
//
// # Naming
//
// Stored filenames are generated (timestamp plus a short unique suffix)
// so devices cannot choose paths. Device identifiers are reduced to a
// safe slug before being used as a directory name; the identifier the
// device actually sent is preserved in the index.
//
// # Consistency
//
// The file is written first, then indexed. If indexing fails the file is
// removed again, so a row in media_items always points at a file that
// existed at insert time. Deletion removes the file first and tolerates
// it already being gone.
package media
