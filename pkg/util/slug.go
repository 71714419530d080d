package util

import (
	"strings"
	"unicode"
)

// Slugify normalizes free text into a lowercase, hyphen-separated slug.
// Runs of non-alphanumeric characters collapse into a single hyphen;
// leading and trailing hyphens are trimmed.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SplitTags splits a comma-separated tag string into trimmed,
// lowercased, deduplicated tags, preserving first-seen order.
func SplitTags(s string) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
