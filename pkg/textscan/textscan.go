package textscan

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// ContainsAny reports whether the lower-cased text contains any of the banned
// substrings. Matching is an exact substring check, not tokenized.
func ContainsAny(text string, banned []string) bool {
	lowered := strings.ToLower(text)
	for _, word := range banned {
		if word == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// Words extracts lower-cased word tokens of at least minLen runes. Tokens are
// runs of Unicode letters, digits and underscores, so non-Latin bodies
// tokenize the same way as ASCII ones.
func Words(text string, minLen int) []string {
	raw := wordPattern.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if utf8.RuneCountInString(w) >= minLen {
			words = append(words, w)
		}
	}
	return words
}

// WordCount pairs a token with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TopWords returns the limit most frequent words of length >= minLen across
// the provided texts. Ties keep first-encountered order.
func TopWords(texts []string, minLen, limit int) []WordCount {
	counts := map[string]int{}
	order := []string{}
	for _, text := range texts {
		for _, word := range Words(text, minLen) {
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	// Stable selection sort over the encounter order keeps ties deterministic.
	ranked := make([]WordCount, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, WordCount{Word: word, Count: counts[word]})
	}
	for i := 0; i < len(ranked); i++ {
		best := i
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].Count > ranked[best].Count {
				best = j
			}
		}
		if best != i {
			picked := ranked[best]
			copy(ranked[i+1:best+1], ranked[i:best])
			ranked[i] = picked
		}
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
