package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexDump(t *testing.T) {
	assert.Equal(t, "", HexDump(""))

	expected := "00000000  41 42 0A " + strings.Repeat("   ", 13) + "  AB.\n"
	assert.Equal(t, expected, HexDump("AB\n"))
}

func TestHexDump_MultipleRows(t *testing.T) {
	text := strings.Repeat("x", 17)
	rows := strings.Split(strings.TrimSuffix(HexDump(text), "\n"), "\n")

	assert.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0], "00000000  78 78"))
	assert.True(t, strings.HasSuffix(rows[0], "  "+strings.Repeat("x", 16)))
	assert.True(t, strings.HasPrefix(rows[1], "00000010  78 "))
	assert.True(t, strings.HasSuffix(rows[1], "  x"))
}
