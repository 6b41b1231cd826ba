package match

import (
	"identigraph/internal/graph"
	"identigraph/internal/textutil"
)

// Threshold is the lowest token-set score that counts as a match.
const Threshold = 80

// Accept reports whether score meets Threshold.
func Accept(score int) bool {
	return score >= Threshold
}

// Score returns the best token-set similarity between name and any of the
// hub's names, 0 when the hub has none.
func Score(name string, hubNames []string) int {
	best := 0
	for _, candidate := range hubNames {
		if s := textutil.TokenSetRatio(name, candidate); s > best {
			best = s
		}
	}
	return best
}

// Decision is a scored resolution.
type Decision struct {
	graph.Resolution
	Score    int
	Accepted bool
}

// Decide scores r.
func Decide(r graph.Resolution) Decision {
	score := Score(r.Name, r.Names)
	return Decision{Resolution: r, Score: score, Accepted: Accept(score)}
}
