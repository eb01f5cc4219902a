// ABOUTME: File-based import connector for newsletter platform exports
// ABOUTME: Parses a JSON export, dedupes by URL, and inserts articles

package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/2389/briefdesk/internal/enrich"
	"github.com/2389/briefdesk/internal/store"
)

// ExportArticle is one entry in a platform export file.
type ExportArticle struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"published_at"`
}

// Result reports what an import run did. Flagged counts imported entries
// that tripped at least one content signal.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Flagged  int `json:"flagged"`
}

// ImportFile reads a JSON export (an array of articles) and inserts each
// entry whose URL is not already present. Entries without a title are
// skipped; entries without a URL are always inserted (nothing to dedupe on).
func ImportFile(ctx context.Context, s *store.Store, path string) (*Result, error) {
	logger := slog.Default().With("component", "importer")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	var entries []ExportArticle
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing export file: %w", err)
	}

	res := &Result{}
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" {
			res.Skipped++
			continue
		}

		if e.URL != "" {
			n, err := s.Count(ctx, "articles",
				[]store.Filter{{Column: "url", Op: store.OpEq, Value: e.URL}})
			if err != nil {
				return nil, err
			}
			if n > 0 {
				res.Skipped++
				continue
			}
		}

		tags := e.Tags
		for _, t := range enrich.SuggestTags(e.Title, e.Summary) {
			tags = appendUnique(tags, t)
		}

		if sig := enrich.Detect(e.Title, e.Summary); sig.Any() {
			res.Flagged++
			logger.Debug("entry flagged",
				"title", e.Title,
				"shouty_title", sig.ShoutyTitle,
				"link_only", sig.LinkOnly,
				"thin", sig.Thin,
			)
		}

		row := store.Row{
			"title":  e.Title,
			"status": "inbox",
			"tags":   strings.Join(tags, ","),
		}
		if e.URL != "" {
			row["url"] = e.URL
		}
		if e.Author != "" {
			row["author"] = e.Author
		}
		if e.Summary != "" {
			row["summary"] = e.Summary
		}
		if e.PublishedAt != "" {
			if _, err := time.Parse(time.RFC3339, e.PublishedAt); err != nil {
				logger.Warn("dropping malformed published_at",
					"title", e.Title, "published_at", e.PublishedAt)
			} else {
				row["published_at"] = e.PublishedAt
			}
		}

		if _, err := s.Insert(ctx, "articles", row); err != nil {
			return nil, fmt.Errorf("importing %q: %w", e.Title, err)
		}
		res.Imported++
	}

	logger.Info("import finished", "path", path, "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
