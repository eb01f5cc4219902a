// ABOUTME: Generic row, filter, and query option types for the storage engine
// ABOUTME: Defines the declarative query model compiled to SQL by compile.go

package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Row is a mapping from column name to a scalar value as read from or
// written to the database. Rows carry no schema knowledge beyond the owning
// table and its `id` primary key column.
type Row map[string]any

// Op is a filter comparison operator. The set is closed: anything outside it
// is rejected at compile time rather than passed through to SQL.
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpLike  Op = "like"
	OpILike Op = "ilike"
	OpIs    Op = "is"
	OpIn    Op = "in"
	OpCs    Op = "cs" // containment in delimiter-encoded collection text
)

// Filter is a single column/operator/value predicate. Filters on a query are
// combined by conjunction.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Nulls controls where NULL values sort relative to non-NULL values.
type Nulls int

const (
	NullsDefault Nulls = iota
	NullsFirst
	NullsLast
)

// Order is a single ORDER BY clause. Direction and null placement are closed
// enums; the column name is identifier-validated before it reaches SQL text.
type Order struct {
	Column string
	Desc   bool
	Nulls  Nulls
}

// Options describes a declarative query against one table.
type Options struct {
	Table   string
	Columns []string // empty means *
	Filters []Filter // conjunction
	Orders  []Order  // applied in listed priority
	Limit   int      // 0 means no limit
	Offset  int      // applied only when Limit > 0
}

// NewID returns a lowercase 32-character hex identifier derived from
// 16 random bytes. Assigned to inserted rows that carry no id.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
