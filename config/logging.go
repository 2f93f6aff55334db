package config

import (
	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/logging"
)

// setLogger picks the zap configuration for the running environment
func setLogger(env string) (*zap.Logger, error) {
	return logging.New(env)
}
