package differ

import (
	"fmt"
	"strings"
)

const hexDumpWidth = 16

// HexDump renders text as rows of 16 bytes: an offset column, the hex cells
// and a printable-ASCII gutter. Diffing two dumps shows byte-level changes
// that are invisible in the plain text view.
func HexDump(text string) string {
	data := []byte(text)
	var sb strings.Builder
	sb.Grow((len(data)/hexDumpWidth + 1) * 78)

	for i := 0; i < len(data); i += hexDumpWidth {
		fmt.Fprintf(&sb, "%08X  ", i)

		var ascii strings.Builder
		for j := 0; j < hexDumpWidth; j++ {
			if i+j >= len(data) {
				sb.WriteString("   ")
				continue
			}
			b := data[i+j]
			fmt.Fprintf(&sb, "%02X ", b)
			if b >= 32 && b <= 126 {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}

		sb.WriteString("  ")
		sb.WriteString(ascii.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
