package textutil

import (
	"sort"
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it on every rune that is neither a
// letter nor a digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SortedTokens returns the tokens of text sorted and joined by single spaces.
func SortedTokens(text string) string {
	tokens := Tokenize(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores two strings between 0 and 100 regardless of word
// order. Identical token multisets score 100.
func TokenSortRatio(a, b string) float64 {
	return Ratio(SortedTokens(a), SortedTokens(b))
}

// Ratio is the normalized indel similarity of two strings, computed over
// runes: 100 * (1 - indel / (len(a)+len(b))).
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	lcs := longestCommonSubsequence(ra, rb)
	indel := total - 2*lcs
	return 100 * (1 - float64(indel)/float64(total))
}

func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
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
