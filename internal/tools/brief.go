// ABOUTME: Daily brief assembly from recent articles and pinned notes
// ABOUTME: Produces markdown with the configured watermark appended

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/store"
)

// BriefTools returns the brief tool catalog entries.
func BriefTools() []*Tool {
	return []*Tool{
		{
			Name:         "brief_generate",
			Description:  "Assemble a markdown brief of recent articles and pinned notes",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"days":{"type":"integer","minimum":1},"limit":{"type":"integer","minimum":1}}}`),
			RequireOwner: true,
			Handler:      briefGenerate,
		},
	}
}

type briefInput struct {
	Days  int `json:"days"`
	Limit int `json:"limit"`
}

func briefGenerate(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in briefInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
		}
	}
	if in.Days <= 0 {
		in.Days = 7
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -in.Days).Format(time.RFC3339)

	articles, err := env.Store.Query(ctx, store.Options{
		Table: "articles",
		Filters: []store.Filter{
			{Column: "created_at", Op: store.OpGte, Value: cutoff},
			{Column: "status", Op: store.OpNeq, Value: StatusArchived},
		},
		Orders: []store.Order{
			{Column: "published_at", Desc: true, Nulls: store.NullsLast},
			{Column: "created_at", Desc: true},
		},
		Limit: in.Limit,
	})
	if err != nil {
		return nil, err
	}

	notes, err := env.Store.Query(ctx, store.Options{
		Table:   "notes",
		Filters: []store.Filter{{Column: "pinned", Op: store.OpEq, Value: 1}},
		Orders:  []store.Order{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Daily Brief\n\n", env.Config.Server.Name)
	fmt.Fprintf(&b, "_%s, looking back %d days_\n\n", time.Now().UTC().Format("January 2, 2006"), in.Days)

	if len(articles) == 0 {
		b.WriteString("Nothing new on the desk.\n")
	} else {
		b.WriteString("## Articles\n\n")
		for _, a := range articles {
			title, _ := a["title"].(string)
			fmt.Fprintf(&b, "- **%s**", title)
			if url, ok := a["url"].(string); ok && url != "" {
				fmt.Fprintf(&b, " (%s)", url)
			}
			b.WriteString("\n")
			if summary, ok := a["summary"].(string); ok && summary != "" {
				fmt.Fprintf(&b, "  %s\n", summary)
			}
		}
		b.WriteString("\n")
	}

	if len(notes) > 0 {
		b.WriteString("## Pinned Notes\n\n")
		for _, n := range notes {
			if body, ok := n["body"].(string); ok {
				fmt.Fprintf(&b, "> %s\n\n", body)
			}
		}
	}

	if env.Config.Server.Watermark != "" {
		fmt.Fprintf(&b, "---\n%s\n", env.Config.Server.Watermark)
	}

	return map[string]any{
		"markdown":      b.String(),
		"article_count": len(articles),
		"note_count":    len(notes),
	}, nil
}
