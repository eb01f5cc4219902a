// ABOUTME: Assembles the complete tool catalog at startup
// ABOUTME: The returned registry is the only tool catalog; no ambient globals

package tools

import "log/slog"

// BuildRegistry constructs the full briefdesk tool catalog.
func BuildRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.MustRegister(ArticleTools()...)
	r.MustRegister(NoteTools()...)
	r.MustRegister(SourceTools()...)
	r.MustRegister(StatsTools()...)
	r.MustRegister(BriefTools()...)
	r.MustRegister(DraftTools()...)
	r.MustRegister(ImportTools()...)
	return r
}
