// ABOUTME: Statistics aggregation tool over the newsletter tables
// ABOUTME: Uses Raw for grouped aggregates; rates pass through Round1

package tools

import (
	"context"
	"encoding/json"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/store"
)

// StatsTools returns the statistics tool catalog entries.
func StatsTools() []*Tool {
	return []*Tool{
		{
			Name:        "stats_overview",
			Description: "Desk statistics: row counts, per-status breakdown, average open rate",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			Handler:     statsOverview,
		},
	}
}

func statsOverview(ctx context.Context, _ json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	counts := map[string]int64{}
	for _, table := range []string{"articles", "notes", "sources"} {
		n, err := env.Store.Count(ctx, table, nil)
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}

	byStatus := map[string]int64{}
	rows, err := env.Store.Raw(ctx,
		"SELECT status, COUNT(*) AS n FROM articles GROUP BY status")
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		status, _ := r["status"].(string)
		if n, ok := r["n"].(int64); ok {
			byStatus[status] = n
		}
	}

	var avgOpenRate float64
	rows, err = env.Store.Raw(ctx,
		"SELECT AVG(open_rate) AS avg_rate FROM articles WHERE open_rate IS NOT NULL")
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if v, ok := rows[0]["avg_rate"].(float64); ok {
			avgOpenRate = store.Round1(v)
		}
	}

	var shippedRate float64
	if counts["articles"] > 0 {
		shippedRate = store.Round1(float64(byStatus[StatusShipped]) / float64(counts["articles"]) * 100)
	}

	return map[string]any{
		"counts":        counts,
		"by_status":     byStatus,
		"avg_open_rate": avgOpenRate,
		"shipped_rate":  shippedRate,
	}, nil
}
