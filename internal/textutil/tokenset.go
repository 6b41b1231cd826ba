package textutil

import (
	"math"
	"slices"
	"strings"
)

// Ratio scores the similarity of a and b as 100·2·LCS/(len(a)+len(b)),
// counting runes. Either string being empty scores 0.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	return int(math.RoundToEven(100 * float64(2*lcs) / float64(len(ra)+len(rb))))
}

// TokenSetRatio compares the token sets of a and b. The shared tokens are
// compared against each side's shared-plus-remaining tokens, so a name whose
// tokens are a subset of the other's scores 100. Word order, case,
// punctuation and accents are ignored.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	slices.Sort(shared)
	slices.Sort(onlyA)
	slices.Sort(onlyB)

	sect := strings.Join(shared, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(Ratio(sect, withA), Ratio(sect, withB), Ratio(withA, withB))
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
