package differ

// Range is a half-open [Start, End) region of a rune slice.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes in the region.
func (r Range) Len() int {
	return r.End - r.Start
}

// Match describes a common substring of two regions.
type Match struct {
	Length int
	StartA int
	StartB int
}

// LongestCommonSubstring finds the longest run shared by a[ra] and b[rb].
// Ties resolve to the first match in row-major order, rows being the longer
// region (or, for equal lengths, the lexicographically smaller one).
func LongestCommonSubstring(a, b []rune, ra, rb Range) Match {
	var m matcher
	return m.longest(a, b, ra, rb)
}

// matcher keeps the two DP rows between calls so the recursive similarity
// walk does not allocate per region.
type matcher struct {
	prev []int
	curr []int
}

func (m *matcher) longest(a, b []rune, ra, rb Range) Match {
	lenA, lenB := ra.Len(), rb.Len()
	if lenA <= 0 || lenB <= 0 {
		return Match{StartA: ra.Start, StartB: rb.Start}
	}

	regionA, regionB := a[ra.Start:ra.End], b[rb.Start:rb.End]
	swapped := lenA > lenB || (lenA == lenB && compareRunes(regionA, regionB) < 0)
	shorter, longer := regionA, regionB
	if swapped {
		shorter, longer = regionB, regionA
	}

	m.reset(len(shorter) + 1)
	prev, curr := m.prev, m.curr

	best, endShorter, endLonger := 0, 0, 0
	for i := 1; i <= len(longer); i++ {
		clear(curr)
		c := longer[i-1]
		for j := 1; j <= len(shorter); j++ {
			if c != shorter[j-1] {
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > best {
				best = curr[j]
				endLonger = i
				endShorter = j
			}
		}
		prev, curr = curr, prev
	}

	startShorter, startLonger := endShorter-best, endLonger-best
	if swapped {
		return Match{Length: best, StartA: ra.Start + startLonger, StartB: rb.Start + startShorter}
	}
	return Match{Length: best, StartA: ra.Start + startShorter, StartB: rb.Start + startLonger}
}

func (m *matcher) reset(n int) {
	if cap(m.prev) < n {
		m.prev = make([]int, n)
		m.curr = make([]int, n)
		return
	}
	m.prev = m.prev[:n]
	m.curr = m.curr[:n]
	clear(m.prev)
}

func compareRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
