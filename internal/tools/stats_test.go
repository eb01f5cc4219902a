// ABOUTME: Tests for the statistics overview handler
// ABOUTME: Verifies counts, status breakdown, and one-decimal rounding

package tools

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsOverview_EmptyDesk(t *testing.T) {
	env := newTestEnv(t)

	result := mustCall(t, env, statsOverview, `{}`).(map[string]any)
	counts := result["counts"].(map[string]int64)
	assert.Equal(t, int64(0), counts["articles"])
	assert.Equal(t, float64(0), result["avg_open_rate"])
	assert.Equal(t, float64(0), result["shipped_rate"])
}

func TestStatsOverview(t *testing.T) {
	env := newTestEnv(t)

	a := createArticle(t, env, `{"title":"One"}`)
	b := createArticle(t, env, `{"title":"Two"}`)
	createArticle(t, env, `{"title":"Three"}`)
	mustCall(t, env, noteAdd, `{"body":"n"}`)

	mustCall(t, env, articleUpdate, fmt.Sprintf(`{"id":%q,"status":"shipped","open_rate":12.3}`, a["id"]))
	mustCall(t, env, articleUpdate, fmt.Sprintf(`{"id":%q,"status":"shipped","open_rate":45.6}`, b["id"]))

	result := mustCall(t, env, statsOverview, `{}`).(map[string]any)

	counts := result["counts"].(map[string]int64)
	assert.Equal(t, int64(3), counts["articles"])
	assert.Equal(t, int64(1), counts["notes"])

	byStatus := result["by_status"].(map[string]int64)
	assert.Equal(t, int64(2), byStatus[StatusShipped])
	assert.Equal(t, int64(1), byStatus[StatusInbox])

	// (12.3 + 45.6) / 2 = 28.95, rounded to one decimal; the half-way value
	// lands on one side deterministically, never in between.
	require.Contains(t, []float64{28.9, 29.0}, result["avg_open_rate"])
	// 2 of 3 shipped = 66.666... -> 66.7
	assert.Equal(t, 66.7, result["shipped_rate"])
}
