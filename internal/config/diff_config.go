package config

// DiffConfig defines configuration for diff computation
type DiffConfig struct {
	Algorithm                string  `json:"algorithm,omitempty" yaml:"algorithm,omitempty" validate:"omitempty,algorithm"`
	SimilarityThreshold      float64 `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty" validate:"ratio"`
	CommonSubstringThreshold float64 `json:"common_substring_threshold,omitempty" yaml:"common_substring_threshold,omitempty" validate:"ratio"`
	CharacterLevel           bool    `json:"character_level,omitempty" yaml:"character_level,omitempty"`
	HexMode                  bool    `json:"hex_mode,omitempty" yaml:"hex_mode,omitempty"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		Algorithm:                DefaultDiffAlgorithm,
		SimilarityThreshold:      DefaultDiffSimilarityThreshold,
		CommonSubstringThreshold: DefaultDiffCommonSubstringThreshold,
		CharacterLevel:           DefaultDiffCharacterLevel,
		HexMode:                  DefaultDiffHexMode,
	}
}
