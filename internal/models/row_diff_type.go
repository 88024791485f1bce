package models

import "fmt"

// RowDiffType is the coarse classification of one exchange against the target.
type RowDiffType int

const (
	// RowDiffNone means neither side differs.
	RowDiffNone RowDiffType = iota
	// RowDiffRequestOnly means only the request differs.
	RowDiffRequestOnly
	// RowDiffResponseOnly means only the response differs.
	RowDiffResponseOnly
	// RowDiffBoth means request and response both differ.
	RowDiffBoth
)

// RowDiffTypeOf combines the per-side verdicts.
func RowDiffTypeOf(requestDiffers, responseDiffers bool) RowDiffType {
	switch {
	case requestDiffers && responseDiffers:
		return RowDiffBoth
	case requestDiffers:
		return RowDiffRequestOnly
	case responseDiffers:
		return RowDiffResponseOnly
	default:
		return RowDiffNone
	}
}

// Differs reports whether any side differs.
func (rt RowDiffType) Differs() bool {
	return rt != RowDiffNone
}

// RequestDiffers reports whether the request side differs.
func (rt RowDiffType) RequestDiffers() bool {
	return rt == RowDiffRequestOnly || rt == RowDiffBoth
}

// ResponseDiffers reports whether the response side differs.
func (rt RowDiffType) ResponseDiffers() bool {
	return rt == RowDiffResponseOnly || rt == RowDiffBoth
}

func (rt RowDiffType) String() string {
	switch rt {
	case RowDiffNone:
		return "none"
	case RowDiffRequestOnly:
		return "request_only"
	case RowDiffResponseOnly:
		return "response_only"
	case RowDiffBoth:
		return "both"
	default:
		return fmt.Sprintf("RowDiffType(%d)", int(rt))
	}
}
