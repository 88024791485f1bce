package logger

import (
	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/rs/zerolog"
)

// New creates a new logger instance from the log section of the config
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
