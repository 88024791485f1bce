package config

const (
	// ConfigPathEnv overrides the default config file search locations.
	ConfigPathEnv = "DIFFHUNTER_CONFIG_PATH"

	// Diff Defaults
	DefaultDiffAlgorithm                = "myers"
	DefaultDiffSimilarityThreshold      = 0.74
	DefaultDiffCommonSubstringThreshold = 0.5
	DefaultDiffCharacterLevel           = false
	DefaultDiffHexMode                  = false

	// Exclusion Defaults
	DefaultExclusionMatchTimeoutMs = 100

	// Capture Defaults
	DefaultCaptureMaxEntries = 100000
	MinCaptureMaxEntries     = 100

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// maxConfigFileSize bounds the config file read.
	maxConfigFileSize = 10 * 1024 * 1024
)
