package differ

// Classifier decides whether an aligned pair of changed lines is one modified
// line or an unrelated deletion plus insertion.
type Classifier struct {
	similarityThreshold      float64
	commonSubstringThreshold float64
}

// NewClassifier creates a classifier using the thresholds of cfg
func NewClassifier(cfg DiffConfig) *Classifier {
	return &Classifier{
		similarityThreshold:      cfg.SimilarityThreshold,
		commonSubstringThreshold: cfg.CommonSubstringThreshold,
	}
}

// ShouldMerge reports whether source and target should be shown as a single
// modified line. Lines merge when their similarity ratio reaches the
// similarity threshold, or when one common run covers enough of the shorter
// line.
func (c *Classifier) ShouldMerge(source, target string) bool {
	if source == "" || target == "" {
		return false
	}
	if source == target {
		return true
	}

	rs, rt := []rune(source), []rune(target)
	if reachesSimilarity(rs, rt, c.similarityThreshold) {
		return true
	}

	match := LongestCommonSubstring(rs, rt, Range{0, len(rs)}, Range{0, len(rt)})
	shortest := min(len(rs), len(rt))
	return float64(match.Length) >= float64(shortest)*c.commonSubstringThreshold
}
