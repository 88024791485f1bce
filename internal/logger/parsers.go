package logger

import (
	"strings"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/rs/zerolog"
)

// ParseLevel parses string log level to zerolog.Level. An empty string is
// the info level.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat parses string format to LogFormat
func ParseFormat(formatStr string) LogFormat {
	switch strings.ToLower(formatStr) {
	case "json":
		return FormatJSON
	case "text", "plain":
		return FormatPlain
	default:
		return FormatConsole
	}
}
