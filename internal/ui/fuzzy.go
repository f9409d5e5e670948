package ui

import (
	"sort"
	"strings"

	"devconsole/internal/actions"
)

type scoredIdx struct {
	idx   int
	score int
}

// fuzzyMatchScore returns (score, ok). Lower score is better.
// Matching is a simple case-insensitive subsequence match.
func fuzzyMatchScore(needle, haystack string) (int, bool) {
	needle = strings.ToLower(needle)
	haystack = strings.ToLower(haystack)
	if needle == "" {
		return 0, true
	}

	score := 0
	j := 0
	for i := 0; i < len(haystack) && j < len(needle); i++ {
		if haystack[i] == needle[j] {
			score += i
			j++
		}
	}
	if j != len(needle) {
		return 0, false
	}
	return score, true
}

// filterActions returns indexes into acts matching filter, best first. An
// empty filter keeps menu order.
func filterActions(acts []actions.Action, filter string) []int {
	needle := strings.TrimSpace(filter)
	out := make([]int, 0, len(acts))
	if needle == "" {
		for i := range acts {
			out = append(out, i)
		}
		return out
	}

	var scored []scoredIdx
	for i, a := range acts {
		cand := a.Label + " " + string(a.ID) + " " + a.Method + " " + a.Path
		if s, ok := fuzzyMatchScore(needle, cand); ok {
			scored = append(scored, scoredIdx{idx: i, score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score == scored[j].score {
			return scored[i].idx < scored[j].idx
		}
		return scored[i].score < scored[j].score
	})
	for _, s := range scored {
		out = append(out, s.idx)
	}
	return out
}
