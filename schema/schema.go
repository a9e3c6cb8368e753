// Package schema has models, enums and stage results shared by all parts of metricmind.
package schema

import "time"

// Repository represents one tracked version-control repository.
type Repository struct {
	ID              int64
	Name            string     // Unique display name resolved at extraction time
	URL             string     // Origin URL or local path
	Description     string     // Optional, operator-supplied
	LastExtractedAt *time.Time // Updated on every successful artifact load
}

// Commit represents one stored commit row. Identity is (RepositoryID, Hash).
type Commit struct {
	ID           int64
	RepositoryID int64
	Hash         string
	AuthorName   string
	AuthorEmail  string
	Subject      string
	Body         string
	LinesAdded   int // Binary file changes excluded
	LinesDeleted int // Binary file changes excluded
	FilesChanged int // Binary file changes excluded
	CommitDate   time.Time
	Weight       int     // Validity scalar 0-100, default 100
	AITools      *string // Comma-joined normalized tool names, nil when none detected
	Category     *string // Short uppercase business tag, nil while uncategorized
	AIConfidence *int    // 0-100, set only when Category came from the AI path
}

// CommitFile holds per-file line counts for one commit. Files are kept in the
// extraction artifact only; storage retains the aggregate counts.
type CommitFile struct {
	Filename     string `json:"filename"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
}

// Category is one entry in the approved business-category vocabulary.
type Category struct {
	ID          int64
	Name        string // Unique, uppercase
	Description string // For AI-minted entries, the model's stated reason
	UsageCount  int    // Incremented on each assignment, never decremented
}
