// ABOUTME: Shared test fixtures for the tools package
// ABOUTME: Builds an Env over a migrated temp-file store

package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/config"
	"github.com/2389/briefdesk/internal/store"
	"github.com/2389/briefdesk/internal/voice"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background(), Migrations))

	cfg := config.Default()
	cfg.Server.Name = "briefdesk-test"
	cfg.Server.Watermark = "— sent from the test desk"

	voicesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(voicesDir, "casual.toml"), []byte(`
greeting = "Hey there,"
sign_off = "See you next week."
sections = ["Top Stories", "Quick Hits"]
`), 0644))

	return &Env{
		Store:  s,
		Config: cfg,
		Voices: voice.NewLibrary(voicesDir),
	}
}

// call invokes a handler with owner auth and raw JSON args.
func call(t *testing.T, env *Env, h Handler, args string) (any, error) {
	t.Helper()
	return h(context.Background(), json.RawMessage(args), &auth.Context{Role: auth.RoleOwner}, env)
}

// mustCall invokes a handler and fails the test on error.
func mustCall(t *testing.T, env *Env, h Handler, args string) any {
	t.Helper()
	result, err := call(t, env, h, args)
	require.NoError(t, err)
	return result
}
