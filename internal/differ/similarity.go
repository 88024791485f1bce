package differ

import "math"

// region is a pair of rune ranges still waiting to be matched.
type region struct {
	a, b Range
}

func (r region) maxMatches() int {
	return min(r.a.Len(), r.b.Len())
}

// Similarity returns the Ratcliff/Obershelp ratio 2M/(len(a)+len(b)), where M
// is the number of characters matched by repeatedly taking the longest common
// substring and recursing on the parts left and right of it.
//
// Each longest-common-substring search is quadratic in the region size and a
// region can split up to min(len(a), len(b)) times, so low-overlap inputs
// such as long lines over a small alphabet approach cubic cost. Callers that
// only compare against a threshold should use ReachesSimilarity.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	ra, rb := []rune(a), []rune(b)
	matched, _ := matchingCharacters(ra, rb, 0)
	return ratio(matched, len(ra)+len(rb))
}

// MatchingCharacters returns M, the Ratcliff/Obershelp matched character count.
// It always walks the full match tree and has the same worst case as Similarity.
func MatchingCharacters(a, b string) int {
	matched, _ := matchingCharacters([]rune(a), []rune(b), 0)
	return matched
}

// ReachesSimilarity reports whether Similarity(a, b) >= threshold. It stops
// matching as soon as the remaining regions cannot supply enough matches.
func ReachesSimilarity(a, b string, threshold float64) bool {
	if a == b {
		return 1.0 >= threshold
	}
	if a == "" || b == "" {
		return 0.0 >= threshold
	}
	return reachesSimilarity([]rune(a), []rune(b), threshold)
}

func reachesSimilarity(a, b []rune, threshold float64) bool {
	total := len(a) + len(b)
	needed := requiredMatches(total, threshold)
	if needed == 0 {
		return true
	}
	matched, ok := matchingCharacters(a, b, needed)
	if !ok {
		return false
	}
	return ratio(matched, total) >= threshold
}

// matchingCharacters walks the match tree with an explicit stack. When needed
// is positive it returns ok=false once matched plus the best case of every
// pending region falls below needed.
func matchingCharacters(a, b []rune, needed int) (matched int, ok bool) {
	root := region{a: Range{0, len(a)}, b: Range{0, len(b)}}
	if root.maxMatches() == 0 {
		return 0, needed <= 0
	}

	var m matcher
	stack := []region{root}
	pending := root.maxMatches()

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if needed > 0 && matched+pending < needed {
			return matched, false
		}
		pending -= r.maxMatches()

		match := m.longest(a, b, r.a, r.b)
		if match.Length == 0 {
			continue
		}
		matched += match.Length

		right := region{
			a: Range{match.StartA + match.Length, r.a.End},
			b: Range{match.StartB + match.Length, r.b.End},
		}
		left := region{
			a: Range{r.a.Start, match.StartA},
			b: Range{r.b.Start, match.StartB},
		}
		// Left is pushed last so it is matched first.
		for _, next := range []region{right, left} {
			if next.maxMatches() > 0 {
				stack = append(stack, next)
				pending += next.maxMatches()
			}
		}
	}

	if needed > 0 && matched < needed {
		return matched, false
	}
	return matched, true
}

// requiredMatches returns the smallest M with 2M/total >= threshold, or
// total+1 when no M can reach it.
func requiredMatches(total int, threshold float64) int {
	if total <= 0 || threshold <= 0 {
		return 0
	}
	m := int(math.Ceil(threshold * float64(total) / 2))
	m = max(m, 0)
	for m > 0 && ratio(m-1, total) >= threshold {
		m--
	}
	for m <= total && ratio(m, total) < threshold {
		m++
	}
	return m
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matched) / float64(total)
}
