package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_ShouldMerge(t *testing.T) {
	classifier := NewClassifier(DefaultDiffConfig())

	tests := []struct {
		name     string
		source   string
		target   string
		expected bool
	}{
		{"empty source", "", "abc", false},
		{"empty target", "abc", "", false},
		{"both empty", "", "", false},
		{"equal lines", "Host: x", "Host: x", true},
		{"high ratio", "GET /a", "GET /b", true},
		{"substring share meets threshold", "abcdef", "abcxyz", true},
		{"substring share below threshold", "abcdef", "abxyzw", false},
		{"no shared run", "abc", "xyz", false},
		{"shared header name", "Content-Length: 120", "Content-Length: 4096", true},
		{"unrelated headers", "Cookie: a=1", "X-Trace: 99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.ShouldMerge(tt.source, tt.target))
		})
	}
}

func TestClassifier_OverriddenThresholds(t *testing.T) {
	cfg := DefaultDiffConfig()
	cfg.SimilarityThreshold = 0.9
	cfg.CommonSubstringThreshold = 0.9
	strict := NewClassifier(cfg)

	assert.False(t, strict.ShouldMerge("GET /a", "GET /b"))
	assert.False(t, strict.ShouldMerge("abcdef", "abcxyz"))
	assert.True(t, strict.ShouldMerge("same", "same"))
}
