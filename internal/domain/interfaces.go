package domain

import "context"

// TriagePredictor runs the full prediction pipeline for one request. The
// text-acquisition layer hands it either raw text in one of the supported
// grammars or an already extracted id-to-value mapping.
type TriagePredictor interface {
	PredictText(ctx context.Context, input string) (*PredictionOutput, error)
	PredictValues(ctx context.Context, values map[string]float64) (*PredictionOutput, error)
}

// ReferenceProvider is the reference-lookup collaborator. It is consulted
// after classification and its results are purely additive.
type ReferenceProvider interface {
	RetrieveReferences(ctx context.Context, categoryID string, maxResults int) ([]Reference, error)
	Query(ctx context.Context, text string) ([]Reference, error)
}

// ConfigManager defines the interface for configuration management.
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	Validate() error
	GetDatabaseConnectionString() string
}
