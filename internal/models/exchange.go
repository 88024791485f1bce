package models

import (
	"strings"
	"time"
)

// Exchange is one captured request/response pair.
type Exchange struct {
	ID         int       `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Tool       string    `json:"tool,omitempty" yaml:"tool,omitempty"`
	Method     string    `json:"method,omitempty" yaml:"method,omitempty"`
	Host       string    `json:"host" yaml:"host"`
	Path       string    `json:"path" yaml:"path"`
	Query      string    `json:"query,omitempty" yaml:"query,omitempty"`
	StatusCode int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Request    string    `json:"request" yaml:"request"`
	Response   string    `json:"response" yaml:"response"`
	Marked     bool      `json:"marked,omitempty" yaml:"marked,omitempty"`
}

// Endpoint returns the path followed by the query string, if any.
func (e Exchange) Endpoint() string {
	if e.Query == "" {
		return e.Path
	}
	return e.Path + "?" + e.Query
}

// TargetKey identifies the logical target an exchange belongs to.
// Exclusion rules are owned per target key.
func (e Exchange) TargetKey() string {
	return e.Host + e.Endpoint()
}

// Normalized returns a copy with CRLF and lone CR line endings turned into LF.
func (e Exchange) Normalized() Exchange {
	e.Request = NormalizeLineEndings(e.Request)
	e.Response = NormalizeLineEndings(e.Response)
	return e
}

// NormalizeLineEndings converts CRLF and CR line endings to LF.
func NormalizeLineEndings(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
