// ABOUTME: Draft generation from a voice template plus selected articles
// ABOUTME: Returns markdown and a goldmark-rendered HTML preview

package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/store"
)

// DraftTools returns the draft tool catalog entries.
func DraftTools() []*Tool {
	return []*Tool{
		{
			Name:         "draft_generate",
			Description:  "Generate a newsletter draft in a named voice from selected articles",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"voice":{"type":"string"},"article_ids":{"type":"array","items":{"type":"string"}},"subject":{"type":"string"}},"required":["voice","article_ids"]}`),
			RequireOwner: true,
			Handler:      draftGenerate,
		},
		{
			Name:        "voice_list",
			Description: "List available voice templates",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			Handler:     voiceList,
		},
	}
}

type draftInput struct {
	Voice      string   `json:"voice"`
	ArticleIDs []string `json:"article_ids"`
	Subject    string   `json:"subject"`
}

func draftGenerate(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in draftInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.Voice == "" {
		return nil, InvalidInput("voice is required")
	}
	if len(in.ArticleIDs) == 0 {
		return nil, InvalidInput("article_ids must not be empty")
	}

	tpl, err := env.Voices.Load(in.Voice)
	if err != nil {
		return nil, NotFound(err.Error())
	}

	rows, err := env.Store.Query(ctx, store.Options{
		Table:   "articles",
		Filters: []store.Filter{{Column: "id", Op: store.OpIn, Value: in.ArticleIDs}},
		Orders: []store.Order{
			{Column: "published_at", Desc: true, Nulls: store.NullsLast},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound("none of the requested articles exist")
	}

	subject := in.Subject
	if subject == "" {
		subject = fmt.Sprintf("%s — %d stories", env.Config.Server.Name, len(rows))
	}

	markdown := renderDraft(tpl.Greeting, tpl.SignOff, tpl.Sections, subject, rows, env.Config.Server.Watermark)

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &html); err != nil {
		return nil, fmt.Errorf("rendering draft preview: %w", err)
	}

	return map[string]any{
		"subject":       subject,
		"voice":         tpl.Name,
		"markdown":      markdown,
		"html":          html.String(),
		"article_count": len(rows),
	}, nil
}

// renderDraft lays the articles out across the voice's sections in order,
// earlier sections filling first.
func renderDraft(greeting, signOff string, sections []string, subject string, articles []store.Row, watermark string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", subject)
	if greeting != "" {
		b.WriteString(greeting + "\n\n")
	}

	perSection := (len(articles) + len(sections) - 1) / len(sections)
	idx := 0
	for _, section := range sections {
		if idx >= len(articles) {
			break
		}
		fmt.Fprintf(&b, "## %s\n\n", section)
		for i := 0; i < perSection && idx < len(articles); i++ {
			a := articles[idx]
			idx++
			title, _ := a["title"].(string)
			if url, ok := a["url"].(string); ok && url != "" {
				fmt.Fprintf(&b, "### [%s](%s)\n\n", title, url)
			} else {
				fmt.Fprintf(&b, "### %s\n\n", title)
			}
			if summary, ok := a["summary"].(string); ok && summary != "" {
				b.WriteString(summary + "\n\n")
			}
		}
	}

	if signOff != "" {
		b.WriteString(signOff + "\n")
	}
	if watermark != "" {
		fmt.Fprintf(&b, "\n---\n%s\n", watermark)
	}
	return b.String()
}

func voiceList(_ context.Context, _ json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	names, err := env.Voices.List()
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return map[string]any{"voices": names, "count": len(names)}, nil
}
