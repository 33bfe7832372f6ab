package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Document is an ingested spreadsheet.
type Document struct {
	ID           string    // UUID derived from FileName
	FileName     string    // Unique; re-uploading the same name replaces the document
	FileType     string    // xlsx, xlsm or csv
	ChunkCount   int
	WarningCount int
	UploadedAt   time.Time
}

// ChunkRecord is a persisted chunk. Seq is assigned by the database on insert.
type ChunkRecord struct {
	Seq         int64
	ID          string // UUID (same as the vector point ID)
	DocumentID  string
	ChunkIndex  int
	Sheet       string
	CellAddress string
	Row         int
	Col         int
	Lvl1        string
	Lvl2        string
	Lvl3        string
	Lvl4        string
	SearchText  string
	ContextText string
}

// FAQSetting is the admin overlay for one lvl1 keyword. A nil Order means "no explicit order".
type FAQSetting struct {
	Lvl1Keyword string
	Visible     bool
	Order       *int
	UpdatedAt   time.Time
}

// Lvl1Entry is a distinct lvl1 value with the insertion position of its first chunk.
type Lvl1Entry struct {
	Keyword  string
	FirstSeq int64
}
