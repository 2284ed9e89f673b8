package match

import (
	"cmp"
	"slices"
)

// Suggestion thresholds.
const (
	// MaxSuggestDistance is the largest edit distance still suggested.
	MaxSuggestDistance = 2
	// MinSuggestScore is the smallest similarity still suggested.
	MinSuggestScore = 0.5
)

type scored struct {
	name     string
	distance int
}

// Suggest returns the candidates close enough to word, nearest first.
// Ties are broken alphabetically so the output is deterministic.
func Suggest(word string, candidates []string) []string {
	var hits []scored

	for _, c := range candidates {
		if c == word {
			continue
		}

		d := Distance(word, c)
		if d > MaxSuggestDistance || Similarity(word, c) < MinSuggestScore {
			continue
		}

		hits = append(hits, scored{name: c, distance: d})
	}

	slices.SortFunc(hits, func(a, b scored) int {
		return cmp.Or(cmp.Compare(a.distance, b.distance), cmp.Compare(a.name, b.name))
	})

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}

	return out
}

// Distance is the number of single-rune insertions, deletions and
// substitutions that turn a into b.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// row[j] is the distance between the current prefix of ra and rb[:j].
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(rb); j++ {
			subst := diag
			if ra[i-1] != rb[j-1] {
				subst++
			}

			diag = row[j]
			row[j] = min(row[j]+1, row[j-1]+1, subst)
		}
	}

	return row[len(rb)]
}

// Similarity scales Distance to 0..1, where 1 means equal.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}
