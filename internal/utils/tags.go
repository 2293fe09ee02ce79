package utils

import "strings"

// SplitTags turns "Excel, Word, Java" into ["Excel" "Word" "Java"].
// Blank entries are dropped and the first spelling of a duplicate wins.
func SplitTags(input string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// NormalizeTags applies the SplitTags rules to an already split list.
func NormalizeTags(tags []string) []string {
	return SplitTags(strings.Join(tags, ","))
}
