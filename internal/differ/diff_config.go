package differ

import (
	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/config"
)

const (
	// DefaultSimilarityThreshold is the Ratcliff/Obershelp ratio at or above
	// which two changed lines are treated as one modified line.
	DefaultSimilarityThreshold = 0.74
	// DefaultCommonSubstringThreshold is the share of the shorter line that a
	// single common run must cover for the lines to be treated as modified.
	DefaultCommonSubstringThreshold = 0.5
)

// DiffConfig holds configuration for diff computation
type DiffConfig struct {
	Algorithm                string
	SimilarityThreshold      float64
	CommonSubstringThreshold float64
}

// DefaultDiffConfig returns default configuration
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		Algorithm:                AlgorithmMyers,
		SimilarityThreshold:      DefaultSimilarityThreshold,
		CommonSubstringThreshold: DefaultCommonSubstringThreshold,
	}
}

// DiffConfigFromGlobal maps the diff section of the global configuration.
// Zero values fall back to the defaults.
func DiffConfigFromGlobal(cfg config.DiffConfig) DiffConfig {
	dc := DefaultDiffConfig()
	if cfg.Algorithm != "" {
		dc.Algorithm = cfg.Algorithm
	}
	if cfg.SimilarityThreshold > 0 {
		dc.SimilarityThreshold = cfg.SimilarityThreshold
	}
	if cfg.CommonSubstringThreshold > 0 {
		dc.CommonSubstringThreshold = cfg.CommonSubstringThreshold
	}
	return dc
}

func (c DiffConfig) validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return common.NewValidationError("similarity_threshold", c.SimilarityThreshold, "threshold must be within [0, 1]")
	}
	if c.CommonSubstringThreshold < 0 || c.CommonSubstringThreshold > 1 {
		return common.NewValidationError("common_substring_threshold", c.CommonSubstringThreshold, "threshold must be within [0, 1]")
	}
	return nil
}
