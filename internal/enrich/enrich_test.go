// ABOUTME: Tests for tagging and signal-detection heuristics
// ABOUTME: Table-driven over representative titles and summaries

package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTags(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		summary string
		want    []string
	}{
		{
			name:    "ai and databases",
			title:   "Serving an LLM from SQLite",
			summary: "A neural ranking layer over a plain database.",
			want:    []string{"ai", "databases"},
		},
		{
			name:    "business",
			title:   "Acme raises a Series B",
			summary: "Funding round led by usual suspects.",
			want:    []string{"business"},
		},
		{
			name:    "no match",
			title:   "A quiet week",
			summary: "Nothing much happened.",
			want:    []string{},
		},
		{
			name:    "deduplicates",
			title:   "CVE roundup: vulnerability season",
			summary: "Another security exploit writeup.",
			want:    []string{"security"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestTags(tt.title, tt.summary))
		})
	}
}

func TestDetect(t *testing.T) {
	s := Detect("THIS IS ABSOLUTELY HUGE NEWS", "https://example.com/post")
	assert.True(t, s.ShoutyTitle)
	assert.True(t, s.LinkOnly)
	assert.False(t, s.Thin)

	s = Detect("A measured take", "Short.")
	assert.False(t, s.ShoutyTitle)
	assert.False(t, s.LinkOnly)
	assert.True(t, s.Thin)

	s = Detect("A measured take", "A long enough summary that gives the brief something to actually work with.")
	assert.False(t, s.Thin)
}

func TestSignalsAny(t *testing.T) {
	assert.False(t, Signals{}.Any())
	assert.True(t, Signals{Thin: true}.Any())
	assert.True(t, Signals{ShoutyTitle: true, LinkOnly: true}.Any())
}
