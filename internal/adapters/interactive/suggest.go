package interactive

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns the candidates closest to input, best match first
func Suggest(input string, candidates []string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}

	var out []string
	for _, match := range fuzzy.Find(input, candidates) {
		out = append(out, match.Str)
	}

	// Fuzzy matching needs the input's characters in order; also offer
	// candidates that merely share a prefix, as with typos like "incremnet"
	for _, candidate := range candidates {
		if len(out) >= 3 {
			break
		}
		if sharedPrefix(input, candidate) >= 3 && !contains(out, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
