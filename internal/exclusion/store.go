package exclusion

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aleister1102/diffhunter/internal/config"
	"github.com/rs/zerolog"
)

// Store keeps one TargetExclusions per target key. Entries are created on
// first use and seeded from the configured rules for that key.
type Store struct {
	mu      sync.RWMutex
	targets map[string]*TargetExclusions
	config  config.ExclusionConfig
	timeout time.Duration
	logger  zerolog.Logger
}

// NewStore creates an empty store
func NewStore(cfg config.ExclusionConfig, logger zerolog.Logger) *Store {
	timeout := DefaultMatchTimeout
	if cfg.MatchTimeoutMs > 0 {
		timeout = time.Duration(cfg.MatchTimeoutMs) * time.Millisecond
	}
	return &Store{
		targets: make(map[string]*TargetExclusions),
		config:  cfg,
		timeout: timeout,
		logger:  logger.With().Str("component", "ExclusionStore").Logger(),
	}
}

// Get returns the rules of key, creating them on first reference
func (s *Store) Get(key string) *TargetExclusions {
	s.mu.RLock()
	te, ok := s.targets[key]
	s.mu.RUnlock()
	if ok {
		return te
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if te, ok := s.targets[key]; ok {
		return te
	}
	te = s.seed(key)
	s.targets[key] = te
	return te
}

func (s *Store) seed(key string) *TargetExclusions {
	te := newTargetExclusions(s.timeout)
	initial, ok := s.config.RulesFor(key)
	if !ok {
		return te
	}

	add := func(side Side, rules []config.RuleConfig) {
		for _, rc := range rules {
			rule := te.AddRule(side, rc.Pattern)
			if rc.Disabled {
				rule.SetEnabled(false)
			}
			if !rule.Valid() {
				s.logger.Warn().Str("target", key).Str("side", side.String()).Str("pattern", rc.Pattern).Msg("Invalid exclusion pattern, rule will never match")
			}
		}
	}
	add(RequestSide, initial.RequestRules)
	add(ResponseSide, initial.ResponseRules)

	s.logger.Debug().Str("target", key).Int("request_rules", len(initial.RequestRules)).Int("response_rules", len(initial.ResponseRules)).Msg("Seeded exclusion rules from config")
	return te
}

// Lookup returns the rules of key without creating them
func (s *Store) Lookup(key string) (*TargetExclusions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	te, ok := s.targets[key]
	return te, ok
}

// Discard drops the rules of key. It reports whether they existed.
func (s *Store) Discard(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.targets[key]
	delete(s.targets, key)
	return ok
}

// Keys returns the known target keys in sorted order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.targets))
}

// Clear drops every target
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.targets)
}
