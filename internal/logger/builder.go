package logger

import (
	"io"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config  LoggerConfig
	factory *WriterFactory
	err     error
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  DefaultLoggerConfig(),
		factory: NewWriterFactory(),
	}
}

// WithConfig sets the logger configuration
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	lb.config, lb.err = ConvertConfig(cfg)
	return lb
}

// WithConsoleOutput redirects console output, mostly for tests
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.factory.console = w
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.err != nil {
		return zerolog.Nop(), lb.err
	}
	if err := lb.validateConfig(); err != nil {
		return zerolog.Nop(), err
	}

	writers := lb.createWriters()
	if len(writers) == 0 {
		return zerolog.Nop(), common.NewError("no output writers configured")
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger(), nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if !lb.config.Console && !lb.config.FileEnabled() {
		return common.NewValidationError("log_file", lb.config.FilePath, "console disabled and no log file set")
	}
	if lb.config.FileEnabled() && lb.config.Rotation.MaxSizeMB <= 0 {
		return common.NewValidationError("max_log_size_mb", lb.config.Rotation.MaxSizeMB, "max size must be positive")
	}
	return nil
}

func (lb *LoggerBuilder) createWriters() []io.Writer {
	var writers []io.Writer
	if lb.config.Console {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format))
	}
	if lb.config.FileEnabled() {
		writers = append(writers, lb.factory.CreateFileWriter(lb.config))
	}
	return writers
}
