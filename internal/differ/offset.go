package differ

import (
	"fmt"
	"strings"
)

// lineSeparator joins lines back into the full text.
const lineSeparator = "\n"

// SplitLines splits text on "\n" keeping a trailing empty line when the text
// ends with a separator, so strings.Join(SplitLines(t), "\n") == t.
func SplitLines(text string) []string {
	return strings.Split(text, lineSeparator)
}

// LineOffset returns the byte offset of the first character of lines[idx] in
// the text the lines were split from. An index past the end clamps to the
// length of the reconstructed text.
func LineOffset(lines []string, idx int) int {
	if idx < 0 {
		panic(fmt.Sprintf("differ: negative line index %d", idx))
	}
	offset := 0
	for i := 0; i < idx && i < len(lines); i++ {
		offset += len(lines[i]) + len(lineSeparator)
	}
	if idx >= len(lines) && len(lines) > 0 {
		// No separator follows the last line.
		offset -= len(lineSeparator)
	}
	return offset
}

// LineOffsets returns a prefix table where offsets[i] == LineOffset(lines, i)
// for every i in [0, len(lines)).
func LineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		offsets[i] = offset
		offset += len(line) + len(lineSeparator)
	}
	return offsets
}
