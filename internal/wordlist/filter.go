package wordlist

import (
	"strings"
	"unicode"
)

// IsWord reports whether s is a non-empty run of ASCII letters.
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return false
		}
	}
	return true
}

// FilterByLetters keeps words starting with any of letters, ignoring case.
// No letters means no filtering.
func FilterByLetters(words []string, letters []string) []string {
	if len(letters) == 0 {
		out := make([]string, len(words))
		copy(out, words)
		return out
	}
	set := make(map[rune]struct{}, len(letters))
	for _, l := range letters {
		for _, r := range strings.TrimSpace(l) {
			set[unicode.ToLower(r)] = struct{}{}
			break
		}
	}
	out := []string{}
	for _, word := range words {
		for _, r := range word {
			if _, ok := set[unicode.ToLower(r)]; ok {
				out = append(out, word)
			}
			break
		}
	}
	return out
}

// LetterCounts counts words per lowercase starting letter.
func LetterCounts(words []string) map[rune]int {
	counts := map[rune]int{}
	for _, word := range words {
		for _, r := range word {
			counts[unicode.ToLower(r)]++
			break
		}
	}
	return counts
}

// ParseLetters splits a comma or space separated letter list such as "a,b c".
func ParseLetters(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := map[string]struct{}{}
	out := []string{}
	for _, f := range fields {
		l := strings.ToLower(f[:1])
		if !IsWord(l) {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
