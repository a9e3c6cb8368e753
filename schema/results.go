package schema

// LoadResult counts the outcome of loading one extraction artifact.
type LoadResult struct {
	RepositoriesCreated int
	RepositoriesUpdated int
	CommitsInserted     int
	CommitsSkipped      int
	CommitsErrored      int
}

// CategorizeResult counts the outcome of one categorization pass.
type CategorizeResult struct {
	Processed         int
	Categorized       int
	Skipped           int // Already settled or no pattern match
	Errored           int
	CategoriesCreated int // New vocabulary entries minted by the AI path
}

// WeightResult counts the outcome of one weight-calculation pass.
type WeightResult struct {
	CommitsScanned int
	RevertsFound   int
	CommitsZeroed  int
	DryRun         bool
}

// CleanReport holds the would-delete counts for one repository cleanup.
type CleanReport struct {
	RepositoryName string
	CommitCount    int
	Applied        bool // False when confirmation was withheld
}

// StoreStatus reports row counts per table for diagnostics.
type StoreStatus struct {
	Backend      DatabaseBackend
	Repositories int
	Commits      int
	Categories   int
}
