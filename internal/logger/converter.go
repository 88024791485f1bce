package logger

import (
	"github.com/aleister1102/diffhunter/internal/config"
)

// ConvertConfig converts application config to logger config. An invalid
// level falls back to info and is reported alongside the result.
func ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:    level,
		Format:   ParseFormat(cfg.LogFormat),
		Console:  true,
		FilePath: ResolveLogFile(cfg.LogFile),
		Rotation: Rotation{
			MaxSizeMB:  positiveOr(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
			MaxBackups: positiveOr(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
			MaxAgeDays: max(cfg.MaxLogAgeDays, 0),
			Compress:   cfg.CompressLogs,
		},
	}, err
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
