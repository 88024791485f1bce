package session

import (
	"context"
	"fmt"

	"github.com/aleister1102/diffhunter/internal/classification"
	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/models"
	"golang.org/x/sync/errgroup"
)

// SideDiff is the diff of one side of an exchange pair. Err is set when the
// diff failed and Segments was left empty.
type SideDiff struct {
	Original string
	Modified string
	Segments []models.DiffSegment
	Err      error
}

// PairDiff is the request and response diff of an exchange against the target.
type PairDiff struct {
	TargetID       int
	EntryID        int
	CharacterLevel bool
	HexMode        bool
	Request        SideDiff
	Response       SideDiff
}

// Visible returns a copy without the segments whose content is matched by
// an exclusion rule of their side. rules may be nil.
func (p PairDiff) Visible(rules classification.Rules) PairDiff {
	if rules == nil {
		return p
	}
	p.Request.Segments = filterSegments(p.Request.Segments, rules.MatchesRequest)
	p.Response.Segments = filterSegments(p.Response.Segments, rules.MatchesResponse)
	return p
}

func filterSegments(segments []models.DiffSegment, excluded func(string) bool) []models.DiffSegment {
	visible := make([]models.DiffSegment, 0, len(segments))
	for _, seg := range segments {
		if !excluded(seg.Content) {
			visible = append(visible, seg)
		}
	}
	return visible
}

// CompareWithTarget diffs the exchange with id against the target. Request
// and response are diffed concurrently. A side whose diff fails is logged
// and comes back empty without affecting the other side.
func (s *Session) CompareWithTarget(ctx context.Context, id int) (PairDiff, error) {
	target, ok := s.Target()
	if !ok {
		return PairDiff{}, ErrNoTarget
	}
	entry, ok := s.captures.Get(id)
	if !ok {
		return PairDiff{}, common.WrapError(common.ErrNotFound, fmt.Sprintf("exchange %d", id))
	}

	s.mu.Lock()
	characterLevel, hexMode := s.characterLevel, s.hexMode
	s.mu.Unlock()
	if hexMode {
		target, entry = hexView(target), hexView(entry)
	}

	result := PairDiff{
		TargetID:       target.ID,
		EntryID:        entry.ID,
		CharacterLevel: characterLevel,
		HexMode:        hexMode,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.Request, err = s.diffSide(gctx, "request", target.Request, entry.Request, characterLevel)
		return err
	})
	g.Go(func() error {
		var err error
		result.Response, err = s.diffSide(gctx, "response", target.Response, entry.Response, characterLevel)
		return err
	})
	if err := g.Wait(); err != nil {
		return PairDiff{}, err
	}
	return result, nil
}

func (s *Session) diffSide(ctx context.Context, side, original, modified string, characterLevel bool) (SideDiff, error) {
	if err := ctx.Err(); err != nil {
		return SideDiff{}, err
	}

	sd := SideDiff{Original: original, Modified: modified}
	segments, err := s.engine.Compute(original, modified, characterLevel)
	if err != nil {
		s.logger.Error().Err(err).Str("side", side).Msg("Diff failed, showing side as unchanged")
		sd.Segments = []models.DiffSegment{}
		sd.Err = err
		return sd, nil
	}
	sd.Segments = segments
	return sd, nil
}
