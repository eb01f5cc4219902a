// ABOUTME: Source catalog tools: add, list, remove
// ABOUTME: Feed URLs are unique; duplicates surface as a typed domain error

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/store"
)

// SourceTools returns the source tool catalog entries.
func SourceTools() []*Tool {
	return []*Tool{
		{
			Name:         "source_add",
			Description:  "Register a newsletter source feed",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"},"feed_url":{"type":"string"},"platform":{"type":"string"}},"required":["name","feed_url"]}`),
			RequireOwner: true,
			Handler:      sourceAdd,
		},
		{
			Name:        "source_list",
			Description: "List registered sources",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"active":{"type":"boolean"}}}`),
			Handler:     sourceList,
		},
		{
			Name:         "source_remove",
			Description:  "Remove a source",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
			RequireOwner: true,
			Handler:      sourceRemove,
		},
	}
}

type sourceAddInput struct {
	Name     string `json:"name"`
	FeedURL  string `json:"feed_url"`
	Platform string `json:"platform"`
}

func sourceAdd(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in sourceAddInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.FeedURL) == "" {
		return nil, InvalidInput("name and feed_url are required")
	}
	if in.Platform == "" {
		in.Platform = "rss"
	}

	n, err := env.Store.Count(ctx, "sources",
		[]store.Filter{{Column: "feed_url", Op: store.OpEq, Value: in.FeedURL}})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, Duplicate(fmt.Sprintf("source with feed URL %s already exists", in.FeedURL))
	}

	created, err := env.Store.Insert(ctx, "sources", store.Row{
		"name":     in.Name,
		"feed_url": in.FeedURL,
		"platform": in.Platform,
		"active":   true,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type sourceListInput struct {
	Active *bool `json:"active"`
}

func sourceList(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in sourceListInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
		}
	}

	var filters []store.Filter
	if in.Active != nil {
		filters = append(filters, store.Filter{Column: "active", Op: store.OpEq, Value: boolInt(*in.Active)})
	}

	rows, err := env.Store.Query(ctx, store.Options{
		Table:   "sources",
		Filters: filters,
		Orders:  []store.Order{{Column: "name"}},
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"sources": rows, "count": len(rows)}, nil
}

func sourceRemove(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in idInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.ID == "" {
		return nil, InvalidInput("id is required")
	}

	rows, err := env.Store.Delete(ctx, "sources",
		[]store.Filter{{Column: "id", Op: store.OpEq, Value: in.ID}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound(fmt.Sprintf("source %s not found", in.ID))
	}
	return map[string]any{"id": in.ID, "deleted": true}, nil
}
