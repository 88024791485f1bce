package differ

import (
	"errors"
	"fmt"

	"github.com/aleister1102/diffhunter/internal/common"
	"github.com/aleister1102/diffhunter/internal/models"
)

// ErrDiffFailed marks a diff computation that failed internally and was
// degraded to an empty result.
var ErrDiffFailed = errors.New("diff computation failed")

// Engine computes line-level and character-level diffs between two texts.
type Engine struct {
	config     DiffConfig
	sequencer  Sequencer
	classifier *Classifier
	charDiffer *CharDiffer
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() DiffConfig {
	return e.config
}

// Classifier returns the line classifier used for change blocks
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Diff returns the ordered difference segments between original and
// modified. Identical inputs give an empty list, and so does an internal
// failure: the caller sees "no differences" rather than an error.
func (e *Engine) Diff(original, modified string, characterLevel bool) []models.DiffSegment {
	segments, _ := e.Compute(original, modified, characterLevel)
	return segments
}

// Compute is Diff that also reports a degraded computation as an error
// wrapping ErrDiffFailed. The segment list is empty in that case.
func (e *Engine) Compute(original, modified string, characterLevel bool) (segments []models.DiffSegment, err error) {
	if original == modified {
		return []models.DiffSegment{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			segments = []models.DiffSegment{}
			err = common.WrapError(ErrDiffFailed, fmt.Sprint(r))
		}
	}()

	return e.compute(original, modified, characterLevel), nil
}

func (e *Engine) compute(original, modified string, characterLevel bool) []models.DiffSegment {
	w := newSegmentWriter(SplitLines(original), SplitLines(modified))

	for _, b := range e.sequencer.DiffLines(w.src, w.tgt) {
		switch b.Kind() {
		case BlockDelete:
			for i := b.SrcStart; i < b.SrcEnd; i++ {
				w.lineSegment(true, i, models.DiffDeleted)
			}
		case BlockInsert:
			for j := b.TgtStart; j < b.TgtEnd; j++ {
				w.lineSegment(false, j, models.DiffAdded)
			}
		case BlockChange:
			e.processChange(w, b, characterLevel)
		}
	}

	return w.segments
}

// processChange pairs the lines of a change block by position. Paired lines
// are merged or split per the classifier; leftovers are plain deletions or
// insertions.
func (e *Engine) processChange(w *segmentWriter, b Block, characterLevel bool) {
	pairs := min(b.SrcEnd-b.SrcStart, b.TgtEnd-b.TgtStart)

	for k := 0; k < pairs; k++ {
		i, j := b.SrcStart+k, b.TgtStart+k
		if !e.classifier.ShouldMerge(w.src[i], w.tgt[j]) {
			w.lineSegment(true, i, models.DiffDeleted)
			w.lineSegment(false, j, models.DiffAdded)
			continue
		}
		if characterLevel {
			w.charSegments(e.charDiffer, i, j)
			continue
		}
		w.lineSegment(true, i, models.DiffModified)
		w.lineSegment(false, j, models.DiffModified)
	}

	for i := b.SrcStart + pairs; i < b.SrcEnd; i++ {
		w.lineSegment(true, i, models.DiffDeleted)
	}
	for j := b.TgtStart + pairs; j < b.TgtEnd; j++ {
		w.lineSegment(false, j, models.DiffAdded)
	}
}

// segmentWriter accumulates segments and the per-side row counters.
type segmentWriter struct {
	src, tgt               []string
	srcOffsets, tgtOffsets []int
	srcRow, tgtRow         int
	segments               []models.DiffSegment
}

func newSegmentWriter(src, tgt []string) *segmentWriter {
	return &segmentWriter{
		src:        src,
		tgt:        tgt,
		srcOffsets: LineOffsets(src),
		tgtOffsets: LineOffsets(tgt),
	}
}

func (w *segmentWriter) lineSegment(original bool, idx int, diffType models.DiffType) {
	lines, offsets := w.tgt, w.tgtOffsets
	if original {
		lines, offsets = w.src, w.srcOffsets
	}
	start := offsets[idx]
	w.segments = append(w.segments, models.DiffSegment{
		StartOffset:     start,
		EndOffset:       start + len(lines[idx]),
		Content:         lines[idx],
		IsOriginal:      original,
		Type:            diffType,
		ParentLineIndex: models.NoParent,
		LineNumber:      idx + 1,
	})
	if original {
		w.srcRow++
	} else {
		w.tgtRow++
	}
}

func (w *segmentWriter) charSegments(cd *CharDiffer, i, j int) {
	w.segments = append(w.segments, cd.DiffLine(
		w.src[i], w.tgt[j],
		w.srcOffsets[i], w.tgtOffsets[j],
		w.srcRow, w.tgtRow,
		i+1, j+1,
	)...)
	w.srcRow++
	w.tgtRow++
}
