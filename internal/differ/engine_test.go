package differ

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/diffhunter/internal/models"
)

func newTestEngine(t *testing.T, algorithm string) *Engine {
	t.Helper()
	cfg := DefaultDiffConfig()
	cfg.Algorithm = algorithm
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

var algorithms = []string{AlgorithmMyers, AlgorithmDMP}

func TestEngine_Identity(t *testing.T) {
	texts := []string{"", "a", "GET / HTTP/1.1\nHost: x\n\n", "héllo\nwörld"}

	for _, algorithm := range algorithms {
		engine := newTestEngine(t, algorithm)
		for _, text := range texts {
			for _, characterLevel := range []bool{false, true} {
				segments := engine.Diff(text, text, characterLevel)
				assert.NotNil(t, segments)
				assert.Empty(t, segments)
			}
		}
	}
}

func TestEngine_RequestLineExample(t *testing.T) {
	original := "GET /a\nHost: x"
	modified := "GET /b\nHost: x"

	lineLevel := []models.DiffSegment{
		{StartOffset: 0, EndOffset: 6, Content: "GET /a", IsOriginal: true, Type: models.DiffModified, ParentLineIndex: models.NoParent, LineNumber: 1},
		{StartOffset: 0, EndOffset: 6, Content: "GET /b", IsOriginal: false, Type: models.DiffModified, ParentLineIndex: models.NoParent, LineNumber: 1},
	}
	charLevel := []models.DiffSegment{
		{StartOffset: 5, EndOffset: 6, Content: "a", IsOriginal: true, Type: models.DiffModified, ParentLineIndex: 0, LineNumber: 1},
		{StartOffset: 5, EndOffset: 6, Content: "b", IsOriginal: false, Type: models.DiffModified, ParentLineIndex: 0, LineNumber: 1},
	}

	for _, algorithm := range algorithms {
		t.Run(algorithm, func(t *testing.T) {
			engine := newTestEngine(t, algorithm)

			if diff := cmp.Diff(lineLevel, engine.Diff(original, modified, false)); diff != "" {
				t.Errorf("line-level mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(charLevel, engine.Diff(original, modified, true)); diff != "" {
				t.Errorf("character-level mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_DeletedAddedAndRows(t *testing.T) {
	engine := newTestEngine(t, AlgorithmMyers)

	original := "alpha\nbeta\ngamma"
	modified := "zzz\nbeta\ngamma!"

	expected := []models.DiffSegment{
		{StartOffset: 0, EndOffset: 5, Content: "alpha", IsOriginal: true, Type: models.DiffDeleted, ParentLineIndex: models.NoParent, LineNumber: 1},
		{StartOffset: 0, EndOffset: 3, Content: "zzz", IsOriginal: false, Type: models.DiffAdded, ParentLineIndex: models.NoParent, LineNumber: 1},
		{StartOffset: 14, EndOffset: 15, Content: "!", IsOriginal: false, Type: models.DiffModified, ParentLineIndex: 1, LineNumber: 3},
	}

	if diff := cmp.Diff(expected, engine.Diff(original, modified, true)); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_LeftoverLines(t *testing.T) {
	engine := newTestEngine(t, AlgorithmMyers)

	segments := engine.Diff("keep\nold", "keep\nnew line\nextra\nmore", false)
	require.Len(t, segments, 4)

	assert.Equal(t, models.DiffDeleted, segments[0].Type)
	assert.Equal(t, "old", segments[0].Content)
	assert.Equal(t, models.DiffAdded, segments[1].Type)
	assert.Equal(t, "new line", segments[1].Content)
	assert.Equal(t, "extra", segments[2].Content)
	assert.Equal(t, models.DiffAdded, segments[2].Type)
	assert.Equal(t, 3, segments[2].LineNumber)
	assert.Equal(t, "more", segments[3].Content)
}

func TestEngine_TrailingSeparator(t *testing.T) {
	engine := newTestEngine(t, AlgorithmMyers)

	segments := engine.Diff("a\nb", "a\nb\n", false)
	require.Len(t, segments, 1)
	assert.Equal(t, models.DiffSegment{
		StartOffset: 4, EndOffset: 4, Content: "", IsOriginal: false,
		Type: models.DiffAdded, ParentLineIndex: models.NoParent, LineNumber: 3,
	}, segments[0])
}

func TestEngine_SegmentsAnchorToTheirSide(t *testing.T) {
	pairs := [][2]string{
		{"GET /users?id=1 HTTP/1.1\nHost: a\nCookie: s=1\n\n", "GET /users?id=2 HTTP/1.1\nHost: a\n\n{\"x\":1}"},
		{"HTTP/1.1 200 OK\nDate: Mon\nContent-Length: 12\n\nhello world!", "HTTP/1.1 500 Internal Server Error\nDate: Tue\nContent-Length: 5\n\nerror"},
		{"", "x\ny"},
		{"ünïcödé\nline", "unicode\nline\nmore"},
	}

	for _, algorithm := range algorithms {
		engine := newTestEngine(t, algorithm)
		for _, pair := range pairs {
			for _, characterLevel := range []bool{false, true} {
				for _, seg := range engine.Diff(pair[0], pair[1], characterLevel) {
					text := pair[1]
					if seg.IsOriginal {
						text = pair[0]
					}
					require.LessOrEqual(t, seg.EndOffset, len(text))
					assert.Equal(t, seg.Content, text[seg.StartOffset:seg.EndOffset])
					assert.GreaterOrEqual(t, seg.LineNumber, 1)
				}
			}
		}
	}
}

// rebuild produces the other side from one side's text and line-level
// segments: unchanged lines are taken from the source, changed lines from
// the segments of the other side.
func rebuild(source, other string, segments []models.DiffSegment, fromOriginal bool) string {
	changedSource := map[int]bool{}
	changedOther := map[int]string{}
	for _, seg := range segments {
		if seg.IsOriginal == fromOriginal {
			changedSource[seg.LineNumber] = true
		} else {
			changedOther[seg.LineNumber] = seg.Content
		}
	}

	var kept []string
	for i, line := range SplitLines(source) {
		if !changedSource[i+1] {
			kept = append(kept, line)
		}
	}

	otherLines := SplitLines(other)
	out := make([]string, 0, len(otherLines))
	for i := range otherLines {
		if content, ok := changedOther[i+1]; ok {
			out = append(out, content)
			continue
		}
		if len(kept) == 0 {
			return "<unchanged lines exhausted>"
		}
		out = append(out, kept[0])
		kept = kept[1:]
	}
	if len(kept) != 0 {
		return "<unchanged lines left over>"
	}
	return strings.Join(out, "\n")
}

func TestEngine_Reconstruction(t *testing.T) {
	pairs := [][2]string{
		{"a\nb\nc\nd", "a\nc\nd\ne"},
		{"HTTP/1.1 200 OK\nX-Id: 1\n\nbody", "HTTP/1.1 302 Found\nLocation: /\nX-Id: 2\n\n"},
		{"", "new\ndocument"},
		{"one\ntwo\nthree", ""},
		{"same\nsame\nsame", "same\nother\nsame"},
	}

	for _, algorithm := range algorithms {
		engine := newTestEngine(t, algorithm)
		for _, pair := range pairs {
			a, b := pair[0], pair[1]
			segments := engine.Diff(a, b, false)
			assert.Equal(t, b, rebuild(a, b, segments, true), "%s: %q -> %q", algorithm, a, b)
			assert.Equal(t, a, rebuild(b, a, segments, false), "%s: %q -> %q", algorithm, b, a)
		}
	}
}

type panickingSequencer struct{}

func (panickingSequencer) DiffLines(x, y []string) []Block { panic("boom") }
func (panickingSequencer) DiffRunes(x, y []rune) []Block   { panic("boom") }

func TestEngine_FailOpen(t *testing.T) {
	engine, err := NewEngineBuilder().
		WithSequencer(panickingSequencer{}).
		Build()
	require.NoError(t, err)

	segments, err := engine.Compute("a", "b", false)
	assert.Empty(t, segments)
	assert.NotNil(t, segments)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiffFailed))

	assert.Empty(t, engine.Diff("a", "b", true))

	// Identical inputs never reach the sequencer.
	segments, err = engine.Compute("same", "same", false)
	assert.NoError(t, err)
	assert.Empty(t, segments)
}

func TestEngineBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DiffConfig)
		wantErr bool
	}{
		{"defaults", func(*DiffConfig) {}, false},
		{"dmp backend", func(c *DiffConfig) { c.Algorithm = AlgorithmDMP }, false},
		{"unknown algorithm", func(c *DiffConfig) { c.Algorithm = "patience" }, true},
		{"similarity above one", func(c *DiffConfig) { c.SimilarityThreshold = 1.5 }, true},
		{"negative substring share", func(c *DiffConfig) { c.CommonSubstringThreshold = -0.1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDiffConfig()
			tt.mutate(&cfg)
			engine, err := NewEngine(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, engine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cfg, engine.Config())
		})
	}
}
