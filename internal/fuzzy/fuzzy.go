// Package fuzzy suggests close matches for mistyped ids and category
// names in error messages.
package fuzzy

import "strings"

// maxDistance is the largest edit distance still considered a plausible
// typo, relative to the input length.
func maxDistance(n int) int {
	if n <= 4 {
		return 1
	}
	if n <= 8 {
		return 2
	}
	return 3
}

// Closest returns the candidate with the smallest edit distance to the
// input, case-insensitively, when that distance is small enough to be a
// likely typo. The second return reports whether a suggestion was found.
func Closest(input string, candidates []string) (string, bool) {
	in := strings.ToLower(input)
	best := ""
	bestDist := maxDistance(len(in)) + 1
	for _, c := range candidates {
		d := distance(in, strings.ToLower(c))
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	if best == "" || bestDist > maxDistance(len(in)) {
		return "", false
	}
	return best, true
}

// distance is the Levenshtein edit distance between two strings.
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
