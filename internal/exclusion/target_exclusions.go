package exclusion

import (
	"slices"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// Side selects the request or response rule list.
type Side int

const (
	RequestSide Side = iota
	ResponseSide
)

func (s Side) String() string {
	if s == RequestSide {
		return "request"
	}
	return "response"
}

// TargetExclusions holds the ordered request-side and response-side rules
// of one target. Every mutation, including edits made through a *Rule it
// owns, fires the registered change listeners.
type TargetExclusions struct {
	mu        sync.RWMutex
	rules     [2][]*Rule
	listeners []func()
	timeout   time.Duration
}

// NewTargetExclusions creates an empty rule set using DefaultMatchTimeout
func NewTargetExclusions() *TargetExclusions {
	return newTargetExclusions(DefaultMatchTimeout)
}

func newTargetExclusions(timeout time.Duration) *TargetExclusions {
	return &TargetExclusions{timeout: timeout}
}

// OnChange registers fn to be called after every rule change
func (te *TargetExclusions) OnChange(fn func()) {
	te.mu.Lock()
	te.listeners = append(te.listeners, fn)
	te.mu.Unlock()
}

func (te *TargetExclusions) notify() {
	te.mu.RLock()
	listeners := slices.Clone(te.listeners)
	te.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// AddRule appends a new enabled rule to side and returns it
func (te *TargetExclusions) AddRule(side Side, pattern string) *Rule {
	rule := NewRuleWithTimeout(pattern, te.timeout)
	rule.setOnChange(te.notify)

	te.mu.Lock()
	te.rules[side] = append(te.rules[side], rule)
	te.mu.Unlock()

	te.notify()
	return rule
}

// AddRequestRule appends a request-side rule
func (te *TargetExclusions) AddRequestRule(pattern string) *Rule {
	return te.AddRule(RequestSide, pattern)
}

// AddResponseRule appends a response-side rule
func (te *TargetExclusions) AddResponseRule(pattern string) *Rule {
	return te.AddRule(ResponseSide, pattern)
}

// RemoveRule removes rule from side. It reports whether the rule was found.
func (te *TargetExclusions) RemoveRule(side Side, rule *Rule) bool {
	te.mu.Lock()
	idx := slices.Index(te.rules[side], rule)
	if idx < 0 {
		te.mu.Unlock()
		return false
	}
	te.rules[side] = slices.Delete(te.rules[side], idx, idx+1)
	te.mu.Unlock()

	rule.setOnChange(nil)
	te.notify()
	return true
}

// RemoveRequestRule removes a request-side rule
func (te *TargetExclusions) RemoveRequestRule(rule *Rule) bool {
	return te.RemoveRule(RequestSide, rule)
}

// RemoveResponseRule removes a response-side rule
func (te *TargetExclusions) RemoveResponseRule(rule *Rule) bool {
	return te.RemoveRule(ResponseSide, rule)
}

// SetAllEnabled switches every rule of side on or off with a single notification
func (te *TargetExclusions) SetAllEnabled(side Side, enabled bool) {
	changed := false
	for _, rule := range te.Rules(side) {
		if rule.setEnabled(enabled) {
			changed = true
		}
	}
	if changed {
		te.notify()
	}
}

// Rules returns a copy of the rule list of side
func (te *TargetExclusions) Rules(side Side) []*Rule {
	te.mu.RLock()
	defer te.mu.RUnlock()
	return slices.Clone(te.rules[side])
}

// RequestRules returns a copy of the request-side rules
func (te *TargetExclusions) RequestRules() []*Rule {
	return te.Rules(RequestSide)
}

// ResponseRules returns a copy of the response-side rules
func (te *TargetExclusions) ResponseRules() []*Rule {
	return te.Rules(ResponseSide)
}

// Matches reports whether any rule of side matches text
func (te *TargetExclusions) Matches(side Side, text string) bool {
	for _, rule := range te.Rules(side) {
		if rule.Matches(text) {
			return true
		}
	}
	return false
}

// MatchesRequest reports whether any request-side rule matches text
func (te *TargetExclusions) MatchesRequest(text string) bool {
	return te.Matches(RequestSide, text)
}

// MatchesResponse reports whether any response-side rule matches text
func (te *TargetExclusions) MatchesResponse(text string) bool {
	return te.Matches(ResponseSide, text)
}

// HasEnabled reports whether side has at least one enabled, valid rule
func (te *TargetExclusions) HasEnabled(side Side) bool {
	for _, rule := range te.Rules(side) {
		if rule.Active() {
			return true
		}
	}
	return false
}

// HasEnabledRequest reports whether any request-side rule is active
func (te *TargetExclusions) HasEnabledRequest() bool {
	return te.HasEnabled(RequestSide)
}

// HasEnabledResponse reports whether any response-side rule is active
func (te *TargetExclusions) HasEnabledResponse() bool {
	return te.HasEnabled(ResponseSide)
}

// Snapshot freezes the currently active rules. Later edits do not affect it.
func (te *TargetExclusions) Snapshot() Snapshot {
	var snap Snapshot
	for side := range snap.patterns {
		for _, rule := range te.Rules(Side(side)) {
			if re := rule.activeRegexp(); re != nil {
				snap.patterns[side] = append(snap.patterns[side], re)
			}
		}
	}
	return snap
}

// Snapshot is an immutable view of the active rules of a target taken at
// one point in time. The zero value has no rules and never matches.
type Snapshot struct {
	patterns [2][]*regexp2.Regexp
}

// Matches reports whether any frozen rule of side matches text
func (s Snapshot) Matches(side Side, text string) bool {
	for _, re := range s.patterns[side] {
		if search(re, text) {
			return true
		}
	}
	return false
}

// MatchesRequest reports whether any frozen request-side rule matches text
func (s Snapshot) MatchesRequest(text string) bool {
	return s.Matches(RequestSide, text)
}

// MatchesResponse reports whether any frozen response-side rule matches text
func (s Snapshot) MatchesResponse(text string) bool {
	return s.Matches(ResponseSide, text)
}

// HasEnabled reports whether side had any active rule
func (s Snapshot) HasEnabled(side Side) bool {
	return len(s.patterns[side]) > 0
}

// HasEnabledRequest reports whether any request-side rule was active
func (s Snapshot) HasEnabledRequest() bool {
	return s.HasEnabled(RequestSide)
}

// HasEnabledResponse reports whether any response-side rule was active
func (s Snapshot) HasEnabledResponse() bool {
	return s.HasEnabled(ResponseSide)
}
