// Package tagger maps free text onto a fixed topic vocabulary.
package tagger

import "strings"

// vocabulary is the full set of topics the engine knows about. Matching
// is plain lower-cased substring search, so the output is always a
// subset of this list, in this order.
var vocabulary = []string{
	"anxiety",
	"stress",
	"work",
	"sleep",
	"relationship",
	"family",
	"health",
	"decision",
	"future",
	"money",
	"career",
	"self-doubt",
	"confidence",
	"fear",
	"anger",
	"sadness",
	"joy",
	"hope",
	"startup",
	"business",
	"technology",
	"coding",
	"innovation",
}

// Extract returns the vocabulary topics whose keyword occurs in content.
// Deterministic: the same content always yields the same tags.
func Extract(content string) []string {
	lowered := strings.ToLower(content)
	tags := make([]string, 0, 4)
	for _, keyword := range vocabulary {
		if strings.Contains(lowered, keyword) {
			tags = append(tags, keyword)
		}
	}
	return tags
}

// ExtractAll tags every content string and returns the union, preserving
// vocabulary order and dropping duplicates.
func ExtractAll(contents []string) []string {
	seen := make(map[string]struct{})
	for _, c := range contents {
		for _, tag := range Extract(c) {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for _, keyword := range vocabulary {
		if _, ok := seen[keyword]; ok {
			tags = append(tags, keyword)
		}
	}
	return tags
}

// Vocabulary returns a copy of the tag vocabulary.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}
