// ABOUTME: Static registry mapping tool names to schema-described handlers
// ABOUTME: Built once at startup and passed by reference into the dispatcher

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/config"
	"github.com/2389/briefdesk/internal/store"
	"github.com/2389/briefdesk/internal/voice"
)

// Env bundles the collaborators a tool handler may touch: the storage engine
// plus static server configuration.
type Env struct {
	Store  *store.Store
	Config *config.Config
	Voices *voice.Library
}

// Handler executes a tool invocation. args is the raw JSON arguments object;
// ac may be nil (no session, most restrictive).
type Handler func(ctx context.Context, args json.RawMessage, ac *auth.Context, env *Env) (any, error)

// Tool is a named, schema-described operation exposed to clients.
type Tool struct {
	Name         string
	Description  string
	InputSchema  json.RawMessage
	RequireOwner bool
	Handler      Handler
}

// Registry holds the fixed tool catalog. It is populated during startup and
// read-only afterwards.
type Registry struct {
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger.With("component", "registry"),
	}
}

// Register adds a tool to the catalog. Name collisions are a startup
// programming error.
func (r *Registry) Register(t *Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.logger.Debug("tool registered", "name", t.Name, "owner_only", t.RequireOwner)
	return nil
}

// MustRegister registers a batch of tools, panicking on collision. Intended
// for the startup catalog where a duplicate name is a bug, not a condition.
func (r *Registry) MustRegister(ts ...*Tool) {
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			panic("tools: " + err.Error())
		}
	}
}

// Get returns the tool with the given name, or nil if unknown.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []*Tool {
	out := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
