// ABOUTME: Compiles declarative filters and order clauses to parameterized SQL
// ABOUTME: Values are always bound parameters; identifiers come from a validated set

package store

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern matches a bare SQL identifier. Table and column names must
// match it before they are spliced into SQL text.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// compileWhere builds the WHERE clause body for a filter list. Returns an
// empty string when no filters are given. Every filter compiles to exactly
// one clause; an `in` filter with an empty list compiles to a contradiction
// (1 = 0) so the query matches nothing instead of silently widening.
func compileWhere(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filters))
	var params []any

	for _, f := range filters {
		if err := validIdent(f.Column); err != nil {
			return "", nil, err
		}

		switch f.Op {
		case OpEq:
			clauses = append(clauses, f.Column+" = ?")
			params = append(params, f.Value)
		case OpNeq:
			clauses = append(clauses, f.Column+" != ?")
			params = append(params, f.Value)
		case OpGt:
			clauses = append(clauses, f.Column+" > ?")
			params = append(params, f.Value)
		case OpGte:
			clauses = append(clauses, f.Column+" >= ?")
			params = append(params, f.Value)
		case OpLt:
			clauses = append(clauses, f.Column+" < ?")
			params = append(params, f.Value)
		case OpLte:
			clauses = append(clauses, f.Column+" <= ?")
			params = append(params, f.Value)
		case OpLike:
			clauses = append(clauses, f.Column+" LIKE ?")
			params = append(params, f.Value)
		case OpILike:
			clauses = append(clauses, f.Column+" LIKE ? COLLATE NOCASE")
			params = append(params, f.Value)
		case OpIs:
			if f.Value == nil {
				clauses = append(clauses, f.Column+" IS NULL")
			} else {
				clauses = append(clauses, f.Column+" IS ?")
				params = append(params, f.Value)
			}
		case OpIn:
			values, err := inValues(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("filter on %s: %w", f.Column, err)
			}
			if len(values) == 0 {
				// An empty IN set matches nothing. Emitting a contradiction
				// keeps the clause count stable instead of dropping the filter.
				clauses = append(clauses, "1 = 0")
				continue
			}
			placeholders := strings.Repeat("?, ", len(values))
			clauses = append(clauses, f.Column+" IN ("+placeholders[:len(placeholders)-2]+")")
			params = append(params, values...)
		case OpCs:
			// Tag-array columns store ",a,b,c,"-style delimited text; wrap both
			// sides with the delimiter so "go" never matches "golang".
			clauses = append(clauses, "instr(',' || "+f.Column+" || ',', ',' || ? || ',') > 0")
			params = append(params, f.Value)
		default:
			return "", nil, fmt.Errorf("unknown filter operator %q", f.Op)
		}
	}

	return strings.Join(clauses, " AND "), params, nil
}

// inValues normalizes the value of an `in` filter to a flat parameter list.
func inValues(v any) ([]any, error) {
	switch list := v.(type) {
	case []any:
		return list, nil
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out, nil
	case []int:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, nil
	case []int64:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, nil
	case []float64:
		out := make([]any, len(list))
		for i, n := range list {
			out[i] = n
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("in operator requires a list, got %T", v)
	}
}

// compileOrder builds the ORDER BY clause body. Direction and null placement
// tokens come from closed enums, never from caller text.
func compileOrder(orders []Order) (string, error) {
	if len(orders) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		if err := validIdent(o.Column); err != nil {
			return "", err
		}
		clause := o.Column
		if o.Desc {
			clause += " DESC"
		} else {
			clause += " ASC"
		}
		switch o.Nulls {
		case NullsFirst:
			clause += " NULLS FIRST"
		case NullsLast:
			clause += " NULLS LAST"
		}
		parts = append(parts, clause)
	}

	return strings.Join(parts, ", "), nil
}

// compileSelect assembles the full SELECT statement for the given options.
func compileSelect(opts Options) (string, []any, error) {
	if err := validIdent(opts.Table); err != nil {
		return "", nil, err
	}

	projection := "*"
	if len(opts.Columns) > 0 {
		for _, c := range opts.Columns {
			if err := validIdent(c); err != nil {
				return "", nil, err
			}
		}
		projection = strings.Join(opts.Columns, ", ")
	}

	sql := "SELECT " + projection + " FROM " + opts.Table

	where, params, err := compileWhere(opts.Filters)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		sql += " WHERE " + where
	}

	orderBy, err := compileOrder(opts.Orders)
	if err != nil {
		return "", nil, err
	}
	if orderBy != "" {
		sql += " ORDER BY " + orderBy
	}

	if opts.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			sql += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	return sql, params, nil
}
