package schema

// Custom string types for type safety.
type (
	// DatabaseBackend represents the database backend for persistent storage.
	DatabaseBackend string

	// ProviderKind represents the LLM provider used for AI categorization.
	ProviderKind string

	// Strategy represents the categorization strategy.
	Strategy string
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All LLM providers supported.
const (
	AnthropicProvider ProviderKind = "anthropic" // default
	OllamaProvider    ProviderKind = "ollama"
	MockProvider      ProviderKind = "mock"
)

// All categorization strategies supported.
const (
	PatternStrategy Strategy = "pattern" // default
	AIStrategy      Strategy = "ai"
)

// Weight values for the validity scalar on commits.
const (
	// DefaultWeight is assigned to every commit on insert.
	DefaultWeight = 100

	// ZeroWeight marks a commit excluded from weighted aggregates.
	ZeroWeight = 0
)

// SettledConfidence is the AI confidence at or above which a commit is
// considered settled and skipped by later categorization runs.
const SettledConfidence = 80

// DefaultConfidence is assumed when the model reply omits a confidence value.
const DefaultConfidence = 50
