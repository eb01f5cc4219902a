// ABOUTME: Editorial note tools: add, list, delete
// ABOUTME: Notes optionally attach to an article and can be pinned for briefs

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/store"
)

// NoteTools returns the note tool catalog entries.
func NoteTools() []*Tool {
	return []*Tool{
		{
			Name:         "note_add",
			Description:  "Add an editorial note, optionally attached to an article",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"body":{"type":"string"},"article_id":{"type":"string"},"pinned":{"type":"boolean"}},"required":["body"]}`),
			RequireOwner: true,
			Handler:      noteAdd,
		},
		{
			Name:        "note_list",
			Description: "List notes, pinned first",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"article_id":{"type":"string"},"pinned":{"type":"boolean"},"limit":{"type":"integer"}}}`),
			Handler:     noteList,
		},
		{
			Name:         "note_delete",
			Description:  "Delete a note",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
			RequireOwner: true,
			Handler:      noteDelete,
		},
	}
}

type noteAddInput struct {
	Body      string `json:"body"`
	ArticleID string `json:"article_id"`
	Pinned    bool   `json:"pinned"`
}

func noteAdd(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in noteAddInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, InvalidInput("body is required")
	}
	if in.ArticleID != "" {
		if _, err := env.Store.QueryOne(ctx, store.Options{
			Table:   "articles",
			Filters: []store.Filter{{Column: "id", Op: store.OpEq, Value: in.ArticleID}},
		}); err == store.ErrNotFound {
			return nil, NotFound(fmt.Sprintf("article %s not found", in.ArticleID))
		} else if err != nil {
			return nil, err
		}
	}

	row := store.Row{
		"body":   in.Body,
		"pinned": in.Pinned,
	}
	if in.ArticleID != "" {
		row["article_id"] = in.ArticleID
	}

	created, err := env.Store.Insert(ctx, "notes", row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

type noteListInput struct {
	ArticleID string `json:"article_id"`
	Pinned    *bool  `json:"pinned"`
	Limit     int    `json:"limit"`
}

func noteList(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in noteListInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
		}
	}

	var filters []store.Filter
	if in.ArticleID != "" {
		filters = append(filters, store.Filter{Column: "article_id", Op: store.OpEq, Value: in.ArticleID})
	}
	if in.Pinned != nil {
		filters = append(filters, store.Filter{Column: "pinned", Op: store.OpEq, Value: boolInt(*in.Pinned)})
	}

	limit := in.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := env.Store.Query(ctx, store.Options{
		Table:   "notes",
		Filters: filters,
		Orders: []store.Order{
			{Column: "pinned", Desc: true},
			{Column: "created_at", Desc: true},
		},
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"notes": rows, "count": len(rows)}, nil
}

func noteDelete(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in idInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.ID == "" {
		return nil, InvalidInput("id is required")
	}

	rows, err := env.Store.Delete(ctx, "notes",
		[]store.Filter{{Column: "id", Op: store.OpEq, Value: in.ID}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound(fmt.Sprintf("note %s not found", in.ID))
	}
	return map[string]any{"id": in.ID, "deleted": true}, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
