package differ

import (
	"fmt"

	"github.com/aleister1102/diffhunter/internal/models"
)

// CharDiffer localizes the differences inside a pair of modified lines.
type CharDiffer struct {
	sequencer Sequencer
}

// NewCharDiffer creates a char differ on top of the given sequencer
func NewCharDiffer(sequencer Sequencer) *CharDiffer {
	return &CharDiffer{sequencer: sequencer}
}

// DiffLine computes the character-level edit script between source and
// target. Every contiguous deleted run of source becomes one Modified segment
// of the original side, every inserted run of target one Modified segment of
// the modified side. Offsets are shifted by the line's base offset and each
// segment carries the parent row index and line number of its side.
func (cd *CharDiffer) DiffLine(source, target string, baseOffsetSource, baseOffsetTarget int,
	parentIdxSource, parentIdxTarget int, lineNumSource, lineNumTarget int) []models.DiffSegment {
	if baseOffsetSource < 0 || baseOffsetTarget < 0 {
		panic(fmt.Sprintf("differ: negative base offset (%d, %d)", baseOffsetSource, baseOffsetTarget))
	}
	if source == target {
		return nil
	}

	srcRunes, srcBytes := indexRunes(source)
	tgtRunes, tgtBytes := indexRunes(target)

	blocks := cd.sequencer.DiffRunes(srcRunes, tgtRunes)
	segments := make([]models.DiffSegment, 0, 2*len(blocks))
	for _, b := range blocks {
		if b.SrcEnd > b.SrcStart {
			start, end := srcBytes[b.SrcStart], srcBytes[b.SrcEnd]
			segments = append(segments, models.DiffSegment{
				StartOffset:     baseOffsetSource + start,
				EndOffset:       baseOffsetSource + end,
				Content:         source[start:end],
				IsOriginal:      true,
				Type:            models.DiffModified,
				ParentLineIndex: parentIdxSource,
				LineNumber:      lineNumSource,
			})
		}
		if b.TgtEnd > b.TgtStart {
			start, end := tgtBytes[b.TgtStart], tgtBytes[b.TgtEnd]
			segments = append(segments, models.DiffSegment{
				StartOffset:     baseOffsetTarget + start,
				EndOffset:       baseOffsetTarget + end,
				Content:         target[start:end],
				IsOriginal:      false,
				Type:            models.DiffModified,
				ParentLineIndex: parentIdxTarget,
				LineNumber:      lineNumTarget,
			})
		}
	}
	return segments
}

// indexRunes decodes s and records the byte offset of every rune, plus a
// final entry for len(s).
func indexRunes(s string) ([]rune, []int) {
	runes := make([]rune, 0, len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(s))
	return runes, offsets
}
