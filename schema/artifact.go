package schema

import "time"

// ExtractionArtifact is the self-describing file produced by the extraction
// stage and consumed by the ingestion loader.
type ExtractionArtifact struct {
	Repository  ArtifactRepository `json:"repository"`
	ExtractedAt time.Time          `json:"extractedAt"`
	Window      ExtractionWindow   `json:"window"`
	Summary     ExtractionSummary  `json:"summary"`
	Commits     []ArtifactCommit   `json:"commits"`
}

// ArtifactRepository identifies the extracted repository.
type ArtifactRepository struct {
	Name string `json:"name"`
	Path string `json:"path"` // Absolute source path of the working copy
}

// ExtractionWindow is the requested date window.
type ExtractionWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ExtractionSummary holds aggregates over the extracted commit set.
type ExtractionSummary struct {
	CommitCount       int `json:"commitCount"`
	TotalLinesAdded   int `json:"totalLinesAdded"`
	TotalLinesDeleted int `json:"totalLinesDeleted"`
	TotalFilesChanged int `json:"totalFilesChanged"`
	DistinctAuthors   int `json:"distinctAuthors"`
}

// ArtifactCommit is one commit record inside an extraction artifact.
// CommitDate is ISO-8601 when the author date parsed, otherwise the raw
// string from the log is retained as a fallback.
type ArtifactCommit struct {
	Hash         string       `json:"hash"`
	CommitDate   string       `json:"commitDate"`
	AuthorName   string       `json:"authorName"`
	AuthorEmail  string       `json:"authorEmail"`
	Subject      string       `json:"subject"`
	Body         string       `json:"body,omitempty"`
	LinesAdded   int          `json:"linesAdded"`
	LinesDeleted int          `json:"linesDeleted"`
	FilesChanged int          `json:"filesChanged"`
	Weight       int          `json:"weight"`
	AITools      *string      `json:"aiTools,omitempty"`
	Category     *string      `json:"category,omitempty"`
	AIConfidence *int         `json:"aiConfidence,omitempty"`
	Files        []CommitFile `json:"files,omitempty"`
}
