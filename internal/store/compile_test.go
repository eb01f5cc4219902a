// ABOUTME: Tests for the filter/order SQL compiler
// ABOUTME: Covers every operator, the empty-in contradiction, and identifier validation

package store

import (
	"reflect"
	"testing"
)

func TestCompileWhere_Operators(t *testing.T) {
	tests := []struct {
		name       string
		filter     Filter
		wantSQL    string
		wantParams []any
	}{
		{"eq", Filter{"status", OpEq, "sent"}, "status = ?", []any{"sent"}},
		{"neq", Filter{"status", OpNeq, "draft"}, "status != ?", []any{"draft"}},
		{"gt", Filter{"open_rate", OpGt, 10.0}, "open_rate > ?", []any{10.0}},
		{"gte", Filter{"open_rate", OpGte, 10.0}, "open_rate >= ?", []any{10.0}},
		{"lt", Filter{"open_rate", OpLt, 50.0}, "open_rate < ?", []any{50.0}},
		{"lte", Filter{"open_rate", OpLte, 50.0}, "open_rate <= ?", []any{50.0}},
		{"like", Filter{"title", OpLike, "%go%"}, "title LIKE ?", []any{"%go%"}},
		{"ilike", Filter{"title", OpILike, "%GO%"}, "title LIKE ? COLLATE NOCASE", []any{"%GO%"}},
		{"is null", Filter{"source_id", OpIs, nil}, "source_id IS NULL", nil},
		{"in", Filter{"status", OpIn, []string{"sent", "draft"}}, "status IN (?, ?)", []any{"sent", "draft"}},
		{"in empty", Filter{"status", OpIn, []string{}}, "1 = 0", nil},
		{"cs", Filter{"tags", OpCs, "ai"}, "instr(',' || tags || ',', ',' || ? || ',') > 0", []any{"ai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := compileWhere([]Filter{tt.filter})
			if err != nil {
				t.Fatalf("compileWhere failed: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql mismatch: got %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(params, tt.wantParams) {
				t.Errorf("params mismatch: got %v, want %v", params, tt.wantParams)
			}
		})
	}
}

func TestCompileWhere_Conjunction(t *testing.T) {
	sql, params, err := compileWhere([]Filter{
		{Column: "status", Op: OpEq, Value: "sent"},
		{Column: "open_rate", Op: OpGt, Value: 20.0},
	})
	if err != nil {
		t.Fatalf("compileWhere failed: %v", err)
	}
	if sql != "status = ? AND open_rate > ?" {
		t.Errorf("unexpected sql: %q", sql)
	}
	if len(params) != 2 {
		t.Errorf("expected 2 params, got %d", len(params))
	}
}

func TestCompileWhere_RejectsBadIdentifier(t *testing.T) {
	_, _, err := compileWhere([]Filter{{Column: "title; DROP TABLE articles", Op: OpEq, Value: "x"}})
	if err == nil {
		t.Fatal("expected error for malicious column name")
	}
}

func TestCompileWhere_RejectsUnknownOperator(t *testing.T) {
	_, _, err := compileWhere([]Filter{{Column: "title", Op: Op("between"), Value: "x"}})
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestCompileWhere_InRequiresList(t *testing.T) {
	_, _, err := compileWhere([]Filter{{Column: "status", Op: OpIn, Value: "sent"}})
	if err == nil {
		t.Fatal("expected error for scalar in-value")
	}
}

func TestCompileOrder(t *testing.T) {
	sql, err := compileOrder([]Order{
		{Column: "published_at", Desc: true, Nulls: NullsLast},
		{Column: "title"},
	})
	if err != nil {
		t.Fatalf("compileOrder failed: %v", err)
	}
	want := "published_at DESC NULLS LAST, title ASC"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestCompileOrder_NullsFirst(t *testing.T) {
	sql, err := compileOrder([]Order{{Column: "due_at", Nulls: NullsFirst}})
	if err != nil {
		t.Fatalf("compileOrder failed: %v", err)
	}
	if sql != "due_at ASC NULLS FIRST" {
		t.Errorf("unexpected sql: %q", sql)
	}
}

func TestCompileSelect(t *testing.T) {
	sql, params, err := compileSelect(Options{
		Table:   "articles",
		Columns: []string{"id", "title"},
		Filters: []Filter{{Column: "status", Op: OpEq, Value: "sent"}},
		Orders:  []Order{{Column: "published_at", Desc: true}},
		Limit:   10,
		Offset:  20,
	})
	if err != nil {
		t.Fatalf("compileSelect failed: %v", err)
	}
	want := "SELECT id, title FROM articles WHERE status = ? ORDER BY published_at DESC LIMIT 10 OFFSET 20"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
	if len(params) != 1 {
		t.Errorf("expected 1 param, got %d", len(params))
	}
}

func TestCompileSelect_NoFilters(t *testing.T) {
	sql, params, err := compileSelect(Options{Table: "articles"})
	if err != nil {
		t.Fatalf("compileSelect failed: %v", err)
	}
	if sql != "SELECT * FROM articles" {
		t.Errorf("unexpected sql: %q", sql)
	}
	if len(params) != 0 {
		t.Errorf("expected no params, got %v", params)
	}
}
