package logger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/rs/zerolog"
)

// DefaultLogFileName names the log file when log_file points at a directory.
const DefaultLogFileName = "diffhunter.log"

// LogFormat selects how log entries are rendered.
type LogFormat int

const (
	// FormatConsole is colored human-readable output.
	FormatConsole LogFormat = iota
	// FormatJSON is one JSON object per entry.
	FormatJSON
	// FormatPlain is the console layout without colors, for pipes and CI logs.
	FormatPlain
)

var formatNames = map[LogFormat]string{
	FormatConsole: "console",
	FormatJSON:    "json",
	FormatPlain:   "text",
}

func (lf LogFormat) String() string {
	if name, ok := formatNames[lf]; ok {
		return name
	}
	return formatNames[FormatConsole]
}

// Rotation controls lumberjack rotation of the log file.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// LoggerConfig is the resolved logging setup. File output is enabled by a
// non-empty FilePath.
type LoggerConfig struct {
	Level    zerolog.Level
	Format   LogFormat
	Console  bool
	FilePath string
	Rotation Rotation
}

// FileEnabled reports whether entries are also written to FilePath
func (c LoggerConfig) FileEnabled() bool {
	return c.FilePath != ""
}

// DefaultLoggerConfig logs info and above to the console only
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:   zerolog.InfoLevel,
		Format:  FormatConsole,
		Console: true,
		Rotation: Rotation{
			MaxSizeMB:  config.DefaultMaxLogSizeMB,
			MaxBackups: config.DefaultMaxLogBackups,
		},
	}
}

// ResolveLogFile maps a directory (an existing one, or a path ending in a
// separator) to DefaultLogFileName inside it. Other paths are kept.
func ResolveLogFile(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return filepath.Join(path, DefaultLogFileName)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultLogFileName)
	}
	return path
}
