// ABOUTME: Named-migration runner with a ledger table tracking applied scripts
// ABOUTME: Each migration and its ledger insert commit in one transaction

package store

import (
	"context"
	"fmt"
	"time"
)

// Migration is a named SQL script. Names identify migrations in the ledger;
// a name already present in the ledger is skipped on later runs.
type Migration struct {
	Name string
	SQL  string
}

const ledgerSchema = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`

// Migrate ensures the ledger table exists, then applies each pending
// migration in declaration order. A migration's script and its ledger row
// commit atomically, so a crash mid-script leaves it neither half-applied
// nor falsely marked.
func (s *Store) Migrate(ctx context.Context, migrations []Migration) error {
	if _, err := s.db.ExecContext(ctx, ledgerSchema); err != nil {
		return fmt.Errorf("creating migration ledger: %w", err)
	}

	applied := map[string]bool{}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("reading migration ledger: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("scanning migration ledger: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating migration ledger: %w", err)
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.Name] {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)",
			m.Name, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", m.Name, err)
		}

		s.logger.Info("migration applied", "name", m.Name)
	}

	return nil
}
