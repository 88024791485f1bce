package differ

import (
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/diff"

	"github.com/aleister1102/diffhunter/internal/common"
)

// Supported sequence diff algorithms
const (
	AlgorithmMyers = "myers"
	AlgorithmDMP   = "dmp"
)

// BlockKind classifies an edit block.
type BlockKind int

const (
	// BlockDelete removes source elements only.
	BlockDelete BlockKind = iota
	// BlockInsert adds target elements only.
	BlockInsert
	// BlockChange replaces source elements with target elements.
	BlockChange
)

func (k BlockKind) String() string {
	switch k {
	case BlockDelete:
		return "delete"
	case BlockInsert:
		return "insert"
	default:
		return "change"
	}
}

// Block is one edit of a script: source[SrcStart:SrcEnd] becomes
// target[TgtStart:TgtEnd]. Blocks of a script are disjoint and ordered.
type Block struct {
	SrcStart, SrcEnd int
	TgtStart, TgtEnd int
}

// Kind returns the edit kind of the block.
func (b Block) Kind() BlockKind {
	switch {
	case b.TgtEnd == b.TgtStart:
		return BlockDelete
	case b.SrcEnd == b.SrcStart:
		return BlockInsert
	default:
		return BlockChange
	}
}

// Sequencer computes minimal edit scripts over lines and over characters.
type Sequencer interface {
	DiffLines(x, y []string) []Block
	DiffRunes(x, y []rune) []Block
}

// NewSequencer returns the sequencer for the named algorithm
func NewSequencer(algorithm string) (Sequencer, error) {
	switch algorithm {
	case "", AlgorithmMyers:
		return myersSequencer{}, nil
	case AlgorithmDMP:
		return newDMPSequencer(), nil
	default:
		return nil, common.NewValidationError("algorithm", algorithm, "unsupported diff algorithm")
	}
}

// myersSequencer uses a minimal Myers diff; hunks without context are
// exactly the change blocks.
type myersSequencer struct{}

func (myersSequencer) DiffLines(x, y []string) []Block {
	return hunkBlocks(x, y)
}

func (myersSequencer) DiffRunes(x, y []rune) []Block {
	return hunkBlocks(x, y)
}

func hunkBlocks[T comparable](x, y []T) []Block {
	hunks := diff.Hunks(x, y, diff.Context(0), diff.Minimal())
	if len(hunks) == 0 {
		return nil
	}
	blocks := make([]Block, 0, len(hunks))
	for _, h := range hunks {
		blocks = append(blocks, Block{SrcStart: h.PosX, SrcEnd: h.EndX, TgtStart: h.PosY, TgtEnd: h.EndY})
	}
	return blocks
}

// dmpSequencer runs diff-match-patch bisection without a deadline, which
// keeps the script minimal.
type dmpSequencer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func newDMPSequencer() *dmpSequencer {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &dmpSequencer{dmp: dmp}
}

func (s *dmpSequencer) DiffLines(x, y []string) []Block {
	rx, ry := linesToRunes(x, y)
	return s.DiffRunes(rx, ry)
}

func (s *dmpSequencer) DiffRunes(x, y []rune) []Block {
	return blocksFromDiffs(s.dmp.DiffMainRunes(x, y, false))
}

// surrogateGap skips the UTF-16 surrogate range so every line rune survives
// the string round trip inside diffmatchpatch.
const (
	surrogateMin = 0xD800
	surrogateGap = 0x800
)

// linesToRunes encodes every distinct line as one private rune.
func linesToRunes(x, y []string) ([]rune, []rune) {
	index := make(map[string]rune, len(x)+len(y))
	encode := func(lines []string) []rune {
		out := make([]rune, len(lines))
		for i, line := range lines {
			r, ok := index[line]
			if !ok {
				r = lineRune(len(index))
				index[line] = r
			}
			out[i] = r
		}
		return out
	}
	return encode(x), encode(y)
}

func lineRune(n int) rune {
	r := rune(n)
	if r >= surrogateMin {
		r += surrogateGap
	}
	if r > utf8.MaxRune {
		panic(fmt.Sprintf("differ: too many distinct lines (%d)", n))
	}
	return r
}

func blocksFromDiffs(diffs []diffmatchpatch.Diff) []Block {
	var (
		blocks []Block
		cur    Block
		open   bool
		x, y   int
	)
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if open {
				blocks = append(blocks, cur)
				open = false
			}
			x += n
			y += n
		case diffmatchpatch.DiffDelete:
			if !open {
				cur = Block{SrcStart: x, SrcEnd: x, TgtStart: y, TgtEnd: y}
				open = true
			}
			x += n
			cur.SrcEnd = x
		case diffmatchpatch.DiffInsert:
			if !open {
				cur = Block{SrcStart: x, SrcEnd: x, TgtStart: y, TgtEnd: y}
				open = true
			}
			y += n
			cur.TgtEnd = y
		}
	}
	if open {
		blocks = append(blocks, cur)
	}
	return blocks
}
