// ABOUTME: Article CRUD tools over the generic storage engine
// ABOUTME: Owner-gated mutations, public reads, tag handling via delimited text

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/enrich"
	"github.com/2389/briefdesk/internal/store"
)

// ArticleTools returns the article tool catalog entries.
func ArticleTools() []*Tool {
	return []*Tool{
		{
			Name:         "article_create",
			Description:  "Save an article to the desk",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"title":{"type":"string"},"url":{"type":"string"},"author":{"type":"string"},"source_id":{"type":"string"},"status":{"type":"string","enum":["inbox","read","shipped","archived"]},"tags":{"type":"array","items":{"type":"string"}},"summary":{"type":"string"},"published_at":{"type":"string","format":"date-time"}},"required":["title"]}`),
			RequireOwner: true,
			Handler:      articleCreate,
		},
		{
			Name:        "article_get",
			Description: "Fetch a single article by id",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
			Handler:     articleGet,
		},
		{
			Name:        "article_list",
			Description: "List articles, optionally filtered by status, source, or tag",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"status":{"type":"string","enum":["inbox","read","shipped","archived"]},"source_id":{"type":"string"},"tag":{"type":"string"},"limit":{"type":"integer"},"offset":{"type":"integer"}}}`),
			Handler:     articleList,
		},
		{
			Name:         "article_update",
			Description:  "Update fields on an existing article",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"},"title":{"type":"string"},"url":{"type":"string"},"author":{"type":"string"},"status":{"type":"string","enum":["inbox","read","shipped","archived"]},"tags":{"type":"array","items":{"type":"string"}},"summary":{"type":"string"},"open_rate":{"type":"number"},"published_at":{"type":"string","format":"date-time"}},"required":["id"]}`),
			RequireOwner: true,
			Handler:      articleUpdate,
		},
		{
			Name:         "article_delete",
			Description:  "Delete an article",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"id":{"type":"string"}},"required":["id"]}`),
			RequireOwner: true,
			Handler:      articleDelete,
		},
	}
}

type articleCreateInput struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	SourceID    string   `json:"source_id"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	PublishedAt string   `json:"published_at"`
}

func articleCreate(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in articleCreateInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, InvalidInput("title is required")
	}
	if in.Status == "" {
		in.Status = StatusInbox
	}
	if !validStatuses[in.Status] {
		return nil, InvalidInput(fmt.Sprintf("unknown status %q", in.Status))
	}
	if in.SourceID != "" {
		if _, err := env.Store.QueryOne(ctx, store.Options{
			Table:   "sources",
			Filters: []store.Filter{{Column: "id", Op: store.OpEq, Value: in.SourceID}},
		}); err == store.ErrNotFound {
			return nil, NotFound(fmt.Sprintf("source %s not found", in.SourceID))
		} else if err != nil {
			return nil, err
		}
	}

	tags := mergeTags(in.Tags, enrich.SuggestTags(in.Title, in.Summary))

	row := store.Row{
		"title":   in.Title,
		"status":  in.Status,
		"tags":    joinTags(tags),
		"summary": nullable(in.Summary),
		"url":     nullable(in.URL),
		"author":  nullable(in.Author),
	}
	if in.SourceID != "" {
		row["source_id"] = in.SourceID
	}
	if in.PublishedAt != "" {
		if _, err := time.Parse(time.RFC3339, in.PublishedAt); err != nil {
			return nil, InvalidInput("published_at must be RFC 3339")
		}
		row["published_at"] = in.PublishedAt
	}

	created, err := env.Store.Insert(ctx, "articles", row)
	if err != nil {
		return nil, err
	}

	// Quality signals ride along on the create response so the editor sees
	// them at intake; they are derived, not stored.
	view := articleView(created)
	view["signals"] = enrich.Detect(in.Title, in.Summary)
	return view, nil
}

type idInput struct {
	ID string `json:"id"`
}

func articleGet(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in idInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.ID == "" {
		return nil, InvalidInput("id is required")
	}

	row, err := env.Store.QueryOne(ctx, store.Options{
		Table:   "articles",
		Filters: []store.Filter{{Column: "id", Op: store.OpEq, Value: in.ID}},
	})
	if err == store.ErrNotFound {
		return nil, NotFound(fmt.Sprintf("article %s not found", in.ID))
	}
	if err != nil {
		return nil, err
	}
	return articleView(row), nil
}

type articleListInput struct {
	Status   string `json:"status"`
	SourceID string `json:"source_id"`
	Tag      string `json:"tag"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func articleList(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in articleListInput
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
		}
	}

	var filters []store.Filter
	if in.Status != "" {
		if !validStatuses[in.Status] {
			return nil, InvalidInput(fmt.Sprintf("unknown status %q", in.Status))
		}
		filters = append(filters, store.Filter{Column: "status", Op: store.OpEq, Value: in.Status})
	}
	if in.SourceID != "" {
		filters = append(filters, store.Filter{Column: "source_id", Op: store.OpEq, Value: in.SourceID})
	}
	if in.Tag != "" {
		filters = append(filters, store.Filter{Column: "tags", Op: store.OpCs, Value: in.Tag})
	}

	limit := in.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := env.Store.Query(ctx, store.Options{
		Table:   "articles",
		Filters: filters,
		Orders: []store.Order{
			{Column: "published_at", Desc: true, Nulls: store.NullsLast},
			{Column: "created_at", Desc: true},
		},
		Limit:  limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}

	views := make([]map[string]any, len(rows))
	for i, r := range rows {
		views[i] = articleView(r)
	}
	return map[string]any{"articles": views, "count": len(views)}, nil
}

type articleUpdateInput struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Author      *string   `json:"author"`
	Status      *string   `json:"status"`
	Tags        *[]string `json:"tags"`
	Summary     *string   `json:"summary"`
	OpenRate    *float64  `json:"open_rate"`
	PublishedAt *string   `json:"published_at"`
}

func articleUpdate(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in articleUpdateInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.ID == "" {
		return nil, InvalidInput("id is required")
	}

	patch := store.Row{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, InvalidInput("title cannot be empty")
		}
		patch["title"] = *in.Title
	}
	if in.URL != nil {
		patch["url"] = nullable(*in.URL)
	}
	if in.Author != nil {
		patch["author"] = nullable(*in.Author)
	}
	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return nil, InvalidInput(fmt.Sprintf("unknown status %q", *in.Status))
		}
		patch["status"] = *in.Status
	}
	if in.Tags != nil {
		patch["tags"] = joinTags(*in.Tags)
	}
	if in.Summary != nil {
		patch["summary"] = nullable(*in.Summary)
	}
	if in.OpenRate != nil {
		patch["open_rate"] = store.Round1(*in.OpenRate)
	}
	if in.PublishedAt != nil {
		if _, err := time.Parse(time.RFC3339, *in.PublishedAt); err != nil {
			return nil, InvalidInput("published_at must be RFC 3339")
		}
		patch["published_at"] = *in.PublishedAt
	}
	if len(patch) == 0 {
		return nil, InvalidInput("no fields to update")
	}
	patch["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	rows, err := env.Store.Update(ctx, "articles",
		[]store.Filter{{Column: "id", Op: store.OpEq, Value: in.ID}}, patch)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound(fmt.Sprintf("article %s not found", in.ID))
	}
	return articleView(rows[0]), nil
}

func articleDelete(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in idInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.ID == "" {
		return nil, InvalidInput("id is required")
	}

	rows, err := env.Store.Delete(ctx, "articles",
		[]store.Filter{{Column: "id", Op: store.OpEq, Value: in.ID}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NotFound(fmt.Sprintf("article %s not found", in.ID))
	}
	return map[string]any{"id": in.ID, "deleted": true}, nil
}

// articleView converts a stored row to its wire shape: tags expand back to a
// list, everything else passes through.
func articleView(row store.Row) map[string]any {
	view := make(map[string]any, len(row))
	for k, v := range row {
		view[k] = v
	}
	if tags, ok := row["tags"].(string); ok {
		view["tags"] = splitTags(tags)
	}
	return view
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// mergeTags combines caller tags with suggestions, deduplicated and sorted.
func mergeTags(given, suggested []string) []string {
	seen := map[string]bool{}
	for _, t := range append(append([]string{}, given...), suggested...) {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			seen[t] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// nullable maps the empty string to NULL so optional text columns stay NULL
// rather than collecting empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
