package session

import (
	"context"
	"testing"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/differ"
	"github.com/aleister1102/diffhunter/internal/exclusion"
	"github.com/aleister1102/diffhunter/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingSequencer struct{}

func (panickingSequencer) DiffLines(x, y []string) []differ.Block { panic("boom") }
func (panickingSequencer) DiffRunes(x, y []rune) []differ.Block   { panic("boom") }

func selectFirst(t *testing.T, s *Session, exchanges ...models.Exchange) {
	t.Helper()
	s.AddExchanges(exchanges...)
	_, err := s.SelectTarget(1)
	require.NoError(t, err)
}

func TestCompareWithTarget_CharacterLevel(t *testing.T) {
	s := newTestSession(t)
	selectFirst(t, s,
		models.Exchange{Request: "GET /a", Response: "ok"},
		models.Exchange{Request: "GET /b", Response: "ok"},
	)
	s.SetCharacterLevel(true)

	pd, err := s.CompareWithTarget(context.Background(), 2)
	require.NoError(t, err)

	want := []models.DiffSegment{
		{StartOffset: 5, EndOffset: 6, Content: "a", IsOriginal: true, Type: models.DiffModified, ParentLineIndex: 0, LineNumber: 1},
		{StartOffset: 5, EndOffset: 6, Content: "b", IsOriginal: false, Type: models.DiffModified, ParentLineIndex: 0, LineNumber: 1},
	}
	if diff := cmp.Diff(want, pd.Request.Segments); diff != "" {
		t.Errorf("request segments mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, pd.Response.Segments)
	assert.NoError(t, pd.Request.Err)
	assert.Equal(t, 1, pd.TargetID)
	assert.Equal(t, 2, pd.EntryID)
	assert.True(t, pd.CharacterLevel)
}

func TestCompareWithTarget_LineLevel(t *testing.T) {
	s := newTestSession(t)
	selectFirst(t, s,
		models.Exchange{Request: "GET /a", Response: "ok"},
		models.Exchange{Request: "GET /b", Response: "ok"},
	)

	pd, err := s.CompareWithTarget(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pd.Request.Segments, 2)
	for _, seg := range pd.Request.Segments {
		assert.Equal(t, models.DiffModified, seg.Type)
		assert.Equal(t, models.NoParent, seg.ParentLineIndex)
	}
}

func TestCompareWithTarget_HexMode(t *testing.T) {
	s := newTestSession(t)
	selectFirst(t, s,
		models.Exchange{Request: "AB", Response: "ok"},
		models.Exchange{Request: "AC", Response: "ok"},
	)
	s.SetHexMode(true)

	pd, err := s.CompareWithTarget(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, pd.HexMode)
	assert.Equal(t, differ.HexDump("AB"), pd.Request.Original)
	assert.Equal(t, differ.HexDump("AC"), pd.Request.Modified)
	assert.NotEmpty(t, pd.Request.Segments)
	assert.Empty(t, pd.Response.Segments)
}

func TestCompareWithTarget_Errors(t *testing.T) {
	s := newTestSession(t)
	_, err := s.CompareWithTarget(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoTarget)

	selectFirst(t, s, models.Exchange{Request: "a"})
	_, err = s.CompareWithTarget(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.CompareWithTarget(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareWithTarget_FailingSideDegradesToEmpty(t *testing.T) {
	s := newTestSession(t)
	engine, err := differ.NewEngineBuilder().WithSequencer(panickingSequencer{}).Build()
	require.NoError(t, err)
	s.engine = engine

	selectFirst(t, s,
		models.Exchange{Request: "GET /a", Response: "same"},
		models.Exchange{Request: "GET /b", Response: "same"},
	)

	pd, err := s.CompareWithTarget(context.Background(), 2)
	require.NoError(t, err)
	assert.ErrorIs(t, pd.Request.Err, differ.ErrDiffFailed)
	assert.Empty(t, pd.Request.Segments)
	assert.NoError(t, pd.Response.Err)
	assert.Empty(t, pd.Response.Segments)
}

func TestPairDiff_Visible(t *testing.T) {
	pd := PairDiff{
		Request: SideDiff{Segments: []models.DiffSegment{
			{Content: "Cookie: a=1", Type: models.DiffModified, ParentLineIndex: models.NoParent},
			{Content: "GET /x", Type: models.DiffModified, ParentLineIndex: models.NoParent},
		}},
		Response: SideDiff{Segments: []models.DiffSegment{
			{Content: "Cookie: a=1", Type: models.DiffAdded, ParentLineIndex: models.NoParent},
		}},
	}

	rules := exclusion.NewTargetExclusions()
	rules.AddRequestRule("^Cookie:")

	visible := pd.Visible(rules)
	require.Len(t, visible.Request.Segments, 1)
	assert.Equal(t, "GET /x", visible.Request.Segments[0].Content)
	assert.Len(t, visible.Response.Segments, 1)
	assert.Len(t, pd.Request.Segments, 2)

	assert.Equal(t, pd, pd.Visible(nil))
}
