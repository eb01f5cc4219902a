// ABOUTME: SQLite-backed storage engine using modernc.org/sqlite
// ABOUTME: Generic query/insert/update/delete/count/raw operations over dynamic rows

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is the generic SQLite storage engine. It has no knowledge of tool
// semantics; callers describe queries declaratively and decode rows at their
// own boundary.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates (or opens) the SQLite database at the given path. Parent
// directories are created if needed. WAL mode and foreign keys are enabled.
func Open(path string) (*Store, error) {
	logger := slog.Default().With("component", "store")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	logger.Info("store opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle. Safe to call during
// shutdown; in-flight statements complete or fail cleanly.
func (s *Store) Close() error {
	return s.db.Close()
}

// Query compiles opts to a parameterized SELECT and returns all matching rows.
func (s *Store) Query(ctx context.Context, opts Options) ([]Row, error) {
	query, params, err := compileSelect(opts)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", opts.Table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// QueryOne runs Query with the limit forced to 1 and returns the first row,
// or ErrNotFound when nothing matches.
func (s *Store) QueryOne(ctx context.Context, opts Options) (Row, error) {
	opts.Limit = 1
	opts.Offset = 0

	results, err := s.Query(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

// Insert writes a row into the table, assigning a generated id when the row
// has none, and returns the persisted row including server-assigned defaults.
func (s *Store) Insert(ctx context.Context, table string, row Row) (Row, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}

	if v, ok := row["id"]; !ok || v == nil || v == "" {
		row = cloneRow(row)
		row["id"] = NewID()
	}

	cols := sortedColumns(row)
	placeholders := make([]string, len(cols))
	params := make([]any, len(cols))
	for i, c := range cols {
		if err := validIdent(c); err != nil {
			return nil, err
		}
		placeholders[i] = "?"
		params[i] = serializeValue(row[c])
	}

	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ") RETURNING *"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", table, err)
	}
	defer rows.Close()

	inserted, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("inserting into %s: no row returned", table)
	}

	s.logger.Debug("row inserted", "table", table, "id", inserted[0]["id"])
	return inserted[0], nil
}

// Update applies the patch to every row matching the filters and returns the
// updated rows. Zero matches yields an empty slice, not an error.
func (s *Store) Update(ctx context.Context, table string, filters []Filter, patch Row) ([]Row, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("updating %s: empty patch", table)
	}

	cols := sortedColumns(patch)
	sets := make([]string, len(cols))
	params := make([]any, 0, len(cols))
	for i, c := range cols {
		if err := validIdent(c); err != nil {
			return nil, err
		}
		sets[i] = c + " = ?"
		params = append(params, serializeValue(patch[c]))
	}

	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ")

	where, whereParams, err := compileWhere(filters)
	if err != nil {
		return nil, err
	}
	if where != "" {
		query += " WHERE " + where
		params = append(params, whereParams...)
	}
	query += " RETURNING *"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Delete removes every row matching the filters and returns the deleted rows
// for caller inspection.
func (s *Store) Delete(ctx context.Context, table string, filters []Filter) ([]Row, error) {
	if err := validIdent(table); err != nil {
		return nil, err
	}

	query := "DELETE FROM " + table

	where, params, err := compileWhere(filters)
	if err != nil {
		return nil, err
	}
	if where != "" {
		query += " WHERE " + where
	}
	query += " RETURNING *"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("deleting from %s: %w", table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Count returns the number of rows matching the filters.
func (s *Store) Count(ctx context.Context, table string, filters []Filter) (int64, error) {
	if err := validIdent(table); err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM " + table

	where, params, err := compileWhere(filters)
	if err != nil {
		return 0, err
	}
	if where != "" {
		query += " WHERE " + where
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// Raw executes a parameterized query the declarative model cannot express
// (joins, aggregates). Caller input goes through params, never SQL text.
func (s *Store) Raw(ctx context.Context, query string, params ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Round1 rounds v to one decimal place, half away from zero. Used for
// derived rates so output stays stable across platforms.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// serializeValue converts a row value to its stored representation:
// collections and objects become JSON text, booleans become 0/1, nil passes
// through, everything else is handed to the driver as-is.
func serializeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if val {
			return 1
		}
		return 0
	case string, int, int32, int64, float32, float64, []byte:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", val)
	}
}

// scanRows reads every remaining row into the generic Row shape. BLOB/text
// bytes are normalized to strings.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func cloneRow(row Row) Row {
	out := make(Row, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	return out
}
