package classification

import (
	"github.com/aleister1102/diffhunter/internal/differ"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/rs/zerolog"
)

// Rules is the read-only view of a target's exclusion rules. Both
// *exclusion.TargetExclusions and exclusion.Snapshot satisfy it.
type Rules interface {
	MatchesRequest(text string) bool
	MatchesResponse(text string) bool
	HasEnabledRequest() bool
	HasEnabledResponse() bool
}

// ExchangeClassifier classifies one exchange against the target.
type ExchangeClassifier interface {
	Classify(target, entry models.Exchange, rules Rules) models.RowDiffType
}

// Classifier decides which sides of an exchange differ from the target,
// ignoring differences hidden by exclusion rules.
type Classifier struct {
	engine *differ.Engine
	logger zerolog.Logger
}

// NewClassifier creates a classifier on top of engine
func NewClassifier(engine *differ.Engine, logger zerolog.Logger) *Classifier {
	return &Classifier{
		engine: engine,
		logger: logger.With().Str("component", "Classifier").Logger(),
	}
}

// Classify compares entry with target. An exchange compared with itself
// never differs. rules may be nil.
func (c *Classifier) Classify(target, entry models.Exchange, rules Rules) models.RowDiffType {
	if target.ID == entry.ID {
		return models.RowDiffNone
	}
	return c.ClassifyTexts(target.Request, target.Response, entry.Request, entry.Response, rules)
}

// ClassifyTexts compares the request and response texts of an entry with
// those of the target.
//
// Without enabled rules a side differs iff its texts differ, and texts of
// different length are known to differ without comparing them. With
// enabled rules on a side, unequal texts are diffed line by line and the
// side differs only if some segment is not matched by a rule of that side.
func (c *Classifier) ClassifyTexts(targetRequest, targetResponse, entryRequest, entryResponse string, rules Rules) models.RowDiffType {
	var requestRules, responseRules bool
	if rules != nil {
		requestRules = rules.HasEnabledRequest()
		responseRules = rules.HasEnabledResponse()
	}

	if !requestRules && !responseRules {
		return models.RowDiffTypeOf(
			textsDiffer(targetRequest, entryRequest),
			textsDiffer(targetResponse, entryResponse),
		)
	}

	requestDiffers := textsDiffer(targetRequest, entryRequest)
	if requestDiffers && requestRules {
		requestDiffers = c.hasVisibleDifference(targetRequest, entryRequest, rules.MatchesRequest)
	}
	responseDiffers := textsDiffer(targetResponse, entryResponse)
	if responseDiffers && responseRules {
		responseDiffers = c.hasVisibleDifference(targetResponse, entryResponse, rules.MatchesResponse)
	}
	return models.RowDiffTypeOf(requestDiffers, responseDiffers)
}

func textsDiffer(a, b string) bool {
	if len(a) != len(b) {
		return true
	}
	return a != b
}

// hasVisibleDifference reports whether any line-level difference between
// target and entry escapes the exclusion matcher.
func (c *Classifier) hasVisibleDifference(target, entry string, excluded func(string) bool) bool {
	segments, err := c.engine.Compute(target, entry, false)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Diff failed during classification, treating side as unchanged")
		return false
	}
	for _, seg := range segments {
		if !excluded(seg.Content) {
			return true
		}
	}
	return false
}
