package models

import (
	"fmt"
	"unicode/utf8"
)

// NoParent marks a line-level segment, which has no owning row.
const NoParent = -1

// DiffType describes what happened to a segment.
type DiffType int

const (
	// DiffDeleted is content present only in the original text.
	DiffDeleted DiffType = iota
	// DiffAdded is content present only in the modified text.
	DiffAdded
	// DiffModified is a line (or part of one) changed in place.
	DiffModified
)

// String returns the display label of the diff type.
func (dt DiffType) String() string {
	switch dt {
	case DiffDeleted:
		return "Deleted"
	case DiffAdded:
		return "Added"
	case DiffModified:
		return "Modified"
	default:
		return fmt.Sprintf("DiffType(%d)", int(dt))
	}
}

// DiffSegment is one contiguous difference region anchored to the side it belongs to.
//
// StartOffset and EndOffset are byte offsets into the original text when
// IsOriginal is set, otherwise into the modified text. Content always equals
// text[StartOffset:EndOffset] of that side.
type DiffSegment struct {
	StartOffset int      `json:"start_offset"`
	EndOffset   int      `json:"end_offset"`
	Content     string   `json:"content"`
	IsOriginal  bool     `json:"is_original"`
	Type        DiffType `json:"type"`
	// ParentLineIndex is NoParent for line-level segments. Character-level
	// segments carry the row index of their changed line on the same side.
	ParentLineIndex int `json:"parent_line_index"`
	LineNumber      int `json:"line_number"` // 1-based
}

// IsLineLevel reports whether the segment covers a whole line.
func (s DiffSegment) IsLineLevel() bool {
	return s.ParentLineIndex == NoParent
}

// IsCharLevel reports whether the segment is a highlight inside a modified line.
func (s DiffSegment) IsCharLevel() bool {
	return s.ParentLineIndex != NoParent
}

// Len returns the byte length of the segment.
func (s DiffSegment) Len() int {
	return s.EndOffset - s.StartOffset
}

// Label returns the display label of the segment type.
func (s DiffSegment) Label() string {
	return s.Type.String()
}

// Preview returns the content cut down to maxRunes runes for table display.
func (s DiffSegment) Preview(maxRunes int) string {
	n := utf8.RuneCountInString(s.Content)
	if maxRunes <= 0 || n <= maxRunes {
		return s.Content
	}
	runes := []rune(s.Content)
	return fmt.Sprintf("%s... (%d chars)", string(runes[:maxRunes]), n)
}
