package config

// RuleConfig is one exclusion pattern as written in the config file
type RuleConfig struct {
	Pattern  string `json:"pattern" yaml:"pattern" validate:"required"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// TargetRulesConfig holds the initial exclusion rules of one target
type TargetRulesConfig struct {
	// Target is the host + endpoint key, e.g. "example.com/api/users?id=1".
	Target        string       `json:"target" yaml:"target" validate:"required"`
	RequestRules  []RuleConfig `json:"request_rules,omitempty" yaml:"request_rules,omitempty" validate:"dive"`
	ResponseRules []RuleConfig `json:"response_rules,omitempty" yaml:"response_rules,omitempty" validate:"dive"`
}

// ExclusionConfig defines configuration for exclusion rules
type ExclusionConfig struct {
	MatchTimeoutMs int                 `json:"match_timeout_ms,omitempty" yaml:"match_timeout_ms,omitempty" validate:"min=0"`
	Targets        []TargetRulesConfig `json:"targets,omitempty" yaml:"targets,omitempty" validate:"dive"`
}

// NewDefaultExclusionConfig creates default exclusion configuration
func NewDefaultExclusionConfig() ExclusionConfig {
	return ExclusionConfig{
		MatchTimeoutMs: DefaultExclusionMatchTimeoutMs,
	}
}

// RulesFor returns the configured rules for target, if any
func (c ExclusionConfig) RulesFor(target string) (TargetRulesConfig, bool) {
	for _, t := range c.Targets {
		if t.Target == target {
			return t, true
		}
	}
	return TargetRulesConfig{}, false
}
