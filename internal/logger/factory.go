package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory creates writers based on format
type WriterFactory struct {
	console io.Writer
}

// NewWriterFactory creates a new writer factory writing console output to stderr
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{console: os.Stderr}
}

// CreateConsoleWriter creates a console writer
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat) io.Writer {
	return formatWriter(wf.console, format, false)
}

// CreateFileWriter creates a size-rotated file writer. Console format is
// written without colors.
func (wf *WriterFactory) CreateFileWriter(cfg LoggerConfig) io.Writer {
	_ = os.MkdirAll(filepath.Dir(cfg.FilePath), 0755)

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.Rotation.MaxSizeMB,
		MaxBackups: cfg.Rotation.MaxBackups,
		MaxAge:     cfg.Rotation.MaxAgeDays,
		Compress:   cfg.Rotation.Compress,
		LocalTime:  true,
	}
	return formatWriter(rotating, cfg.Format, true)
}

func formatWriter(out io.Writer, format LogFormat, noColor bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatPlain:
		noColor = true
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
}
