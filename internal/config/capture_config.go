package config

// CaptureConfig defines configuration for the capture store
type CaptureConfig struct {
	// MaxEntries caps the number of retained exchanges; the oldest unmarked
	// ones are evicted first.
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty" validate:"min=100"`
	// File is the default capture file loaded by the CLI.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// NewDefaultCaptureConfig creates default capture configuration
func NewDefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		MaxEntries: DefaultCaptureMaxEntries,
	}
}
