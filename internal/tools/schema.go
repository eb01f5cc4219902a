// ABOUTME: Domain schema migrations for the newsletter tables
// ABOUTME: Applied through the storage engine's named-migration runner

package tools

import "github.com/2389/briefdesk/internal/store"

// Migrations is the ordered schema history for the newsletter dataset. The
// storage engine owns application; this package owns the scripts.
var Migrations = []store.Migration{
	{
		Name: "001_sources",
		SQL: `CREATE TABLE sources (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			feed_url   TEXT NOT NULL UNIQUE,
			platform   TEXT NOT NULL DEFAULT 'rss',
			active     INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	},
	{
		Name: "002_articles",
		SQL: `CREATE TABLE articles (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			url          TEXT,
			author       TEXT,
			source_id    TEXT REFERENCES sources(id),
			status       TEXT NOT NULL DEFAULT 'inbox',
			tags         TEXT NOT NULL DEFAULT '',
			summary      TEXT,
			open_rate    REAL,
			published_at TEXT,
			created_at   TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX idx_articles_status ON articles(status);
		CREATE INDEX idx_articles_source ON articles(source_id);
		CREATE INDEX idx_articles_published ON articles(published_at)`,
	},
	{
		Name: "003_notes",
		SQL: `CREATE TABLE notes (
			id         TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			article_id TEXT REFERENCES articles(id),
			pinned     INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX idx_notes_article ON notes(article_id)`,
	},
}

// Article status values.
const (
	StatusInbox    = "inbox"
	StatusRead     = "read"
	StatusShipped  = "shipped"
	StatusArchived = "archived"
)

var validStatuses = map[string]bool{
	StatusInbox:    true,
	StatusRead:     true,
	StatusShipped:  true,
	StatusArchived: true,
}
