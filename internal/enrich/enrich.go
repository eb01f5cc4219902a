// ABOUTME: Content enrichment heuristics: regex auto-tagging and signal detection
// ABOUTME: Pure functions with no storage knowledge, used on article create/import

package enrich

import (
	"regexp"
	"sort"
	"strings"
)

// tagRule maps a compiled keyword pattern to the tag it suggests.
type tagRule struct {
	pattern *regexp.Regexp
	tag     string
}

var tagRules = []tagRule{
	{regexp.MustCompile(`(?i)\b(llm|gpt|claude|machine learning|neural)\b`), "ai"},
	{regexp.MustCompile(`(?i)\b(golang|\bgo 1\.\d)`), "go"},
	{regexp.MustCompile(`(?i)\b(postgres|sqlite|database|sql)\b`), "databases"},
	{regexp.MustCompile(`(?i)\b(kubernetes|docker|terraform|infra)\b`), "infra"},
	{regexp.MustCompile(`(?i)\b(funding|series [a-e]|acquisition|ipo)\b`), "business"},
	{regexp.MustCompile(`(?i)\b(security|cve|vulnerability|exploit)\b`), "security"},
	{regexp.MustCompile(`(?i)\b(newsletter|substack|audience|open rate)\b`), "meta"},
}

// SuggestTags returns deduplicated, sorted tag suggestions for the given
// title and summary text.
func SuggestTags(title, summary string) []string {
	text := title + "\n" + summary

	seen := map[string]bool{}
	for _, r := range tagRules {
		if r.pattern.MatchString(text) {
			seen[r.tag] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Signals are quality flags detected on a piece of content.
type Signals struct {
	ShoutyTitle bool `json:"shouty_title"` // mostly upper-case title
	LinkOnly    bool `json:"link_only"`    // summary is just a URL
	Thin        bool `json:"thin"`         // summary too short to brief from
}

// Any reports whether at least one signal fired.
func (s Signals) Any() bool {
	return s.ShoutyTitle || s.LinkOnly || s.Thin
}

var urlOnly = regexp.MustCompile(`^\s*https?://\S+\s*$`)

// Detect computes content signals for the given title and summary.
func Detect(title, summary string) Signals {
	return Signals{
		ShoutyTitle: shouty(title),
		LinkOnly:    urlOnly.MatchString(summary),
		Thin:        len(strings.TrimSpace(summary)) < 40 && !urlOnly.MatchString(summary),
	}
}

// shouty reports whether more than half of a title's letters are upper-case.
func shouty(title string) bool {
	var letters, upper int
	for _, r := range title {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
			upper++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}
	return letters >= 8 && upper*2 > letters
}
