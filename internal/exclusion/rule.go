package exclusion

import (
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single pattern evaluation.
const DefaultMatchTimeout = 100 * time.Millisecond

// Rule is a regular expression that hides differences it matches.
//
// A rule whose pattern fails to compile is kept but marked invalid, and an
// invalid or disabled rule never matches. Patterns use .NET/Java style
// syntax, so look-around and backreferences are available.
type Rule struct {
	mu       sync.RWMutex
	pattern  string
	enabled  bool
	re       *regexp2.Regexp
	timeout  time.Duration
	onChange func()
}

// NewRule creates an enabled rule using DefaultMatchTimeout
func NewRule(pattern string) *Rule {
	return NewRuleWithTimeout(pattern, DefaultMatchTimeout)
}

// NewRuleWithTimeout creates an enabled rule with a custom match timeout.
// A non-positive timeout disables the limit.
func NewRuleWithTimeout(pattern string, timeout time.Duration) *Rule {
	r := &Rule{
		pattern: pattern,
		enabled: true,
		timeout: timeout,
	}
	r.re = compile(pattern, timeout)
	return r
}

func compile(pattern string, timeout time.Duration) *regexp2.Regexp {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re
}

// Pattern returns the raw pattern text
func (r *Rule) Pattern() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pattern
}

// Valid reports whether the pattern compiled
func (r *Rule) Valid() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.re != nil
}

// Enabled reports whether the rule is switched on
func (r *Rule) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Active reports whether the rule can match anything
func (r *Rule) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled && r.re != nil
}

// SetPattern replaces and recompiles the pattern. It returns whether the
// new pattern is valid.
func (r *Rule) SetPattern(pattern string) bool {
	r.mu.Lock()
	r.pattern = pattern
	r.re = compile(pattern, r.timeout)
	valid := r.re != nil
	notify := r.onChange
	r.mu.Unlock()

	if notify != nil {
		notify()
	}
	return valid
}

// SetEnabled switches the rule on or off
func (r *Rule) SetEnabled(enabled bool) {
	if r.setEnabled(enabled) {
		r.notify()
	}
}

func (r *Rule) setEnabled(enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled == enabled {
		return false
	}
	r.enabled = enabled
	return true
}

func (r *Rule) notify() {
	r.mu.RLock()
	notify := r.onChange
	r.mu.RUnlock()
	if notify != nil {
		notify()
	}
}

func (r *Rule) setOnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Matches reports whether the pattern occurs anywhere in text. Disabled
// and invalid rules never match, and a match that exceeds the timeout
// counts as no match.
func (r *Rule) Matches(text string) bool {
	re := r.activeRegexp()
	if re == nil {
		return false
	}
	return search(re, text)
}

// activeRegexp returns the compiled pattern when the rule is active
func (r *Rule) activeRegexp() *regexp2.Regexp {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.enabled {
		return nil
	}
	return r.re
}

func search(re *regexp2.Regexp, text string) bool {
	ok, err := re.MatchString(text)
	return err == nil && ok
}
