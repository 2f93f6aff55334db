package logging

import "go.uber.org/zap"

// New creates a new zap logger for the given environment. Unknown environments get
// the example logger used for local runs.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}
