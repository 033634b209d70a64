package validation

import (
	"fmt"
	"sort"
	"strings"
)

// makeSuggestion lists the options close to input, e.g. ` Did you mean "name"?`. It
// returns "" when nothing is close.
func makeSuggestion(prefix string, options []string, input string) string {
	type candidate struct {
		name string
		dist int
	}
	var candidates []candidate
	threshold := len(input)/2 + 1
	lower := strings.ToLower(input)
	for _, opt := range options {
		if strings.HasPrefix(opt, "__") {
			continue
		}
		d := levenshtein(lower, strings.ToLower(opt))
		if d <= threshold || strings.Contains(strings.ToLower(opt), lower) {
			candidates = append(candidates, candidate{opt, d})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	quoted := make([]string, len(candidates))
	for i, c := range candidates {
		quoted[i] = fmt.Sprintf("%q", c.name)
	}
	var list string
	switch len(quoted) {
	case 1:
		list = quoted[0]
	case 2:
		list = quoted[0] + " or " + quoted[1]
	default:
		list = strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
	}
	return fmt.Sprintf(" %s %s?", prefix, list)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
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
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
