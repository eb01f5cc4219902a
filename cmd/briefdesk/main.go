// ABOUTME: Entry point for the briefdesk MCP server
// ABOUTME: Serves newsletter tools over stdio with a SQLite desk database

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/config"
	"github.com/2389/briefdesk/internal/importer"
	"github.com/2389/briefdesk/internal/mcp"
	"github.com/2389/briefdesk/internal/store"
	"github.com/2389/briefdesk/internal/tools"
	"github.com/2389/briefdesk/internal/voice"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: briefdesk <command>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  serve            Serve MCP over stdio")
		fmt.Fprintln(os.Stderr, "  init             Create a new config file interactively")
		fmt.Fprintln(os.Stderr, "  migrate          Apply pending database migrations")
		fmt.Fprintln(os.Stderr, "  import <file>    Import a JSON platform export")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "migrate":
		err = runMigrate(ctx)
	case "import":
		err = runImport(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file if present, otherwise returns defaults so
// a fresh install works without any setup.
func loadConfig() (*config.Config, error) {
	path := config.DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// runServe wires the stack together and serves MCP on stdin/stdout. Stdout
// carries only protocol frames; everything else goes to stderr.
func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting briefdesk",
		"version", version,
		"database", cfg.Database.Path,
		"voices", cfg.Voices.Dir,
		"auth_enabled", cfg.Auth.Enabled,
	)

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx, tools.Migrations); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	ac := auth.Resolve(cfg.Auth.Enabled, cfg.Auth.Secret, os.Getenv("BRIEFDESK_SECRET"))
	logger.Info("session resolved", "role", ac.Role)

	srv, err := mcp.NewServer(mcp.Config{
		Registry: tools.BuildRegistry(logger),
		Env: &tools.Env{
			Store:  s,
			Config: cfg,
			Voices: voice.NewLibrary(cfg.Voices.Dir),
		},
		Auth:   ac,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if err == context.Canceled {
		return nil
	}
	return err
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx, tools.Migrations); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Database migrated: %s\n", cfg.Database.Path)
	return nil
}

func runImport(ctx context.Context) error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: briefdesk import <file>")
	}
	path := os.Args[2]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx, tools.Migrations); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	res, err := importer.ImportFile(ctx, s, path)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	green := color.New(color.FgGreen)
	green.Printf("  ✓ Imported %d article(s), skipped %d, flagged %d\n", res.Imported, res.Skipped, res.Flagged)
	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("briefdesk configuration setup")
	fmt.Println("=============================")
	fmt.Println()

	defaultConfigPath := config.DefaultPath()
	defaultDataPath := config.DataDir()

	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	name := prompt(reader, "Server name", "briefdesk")
	watermark := prompt(reader, "Brief watermark (appended to generated briefs)", "")

	fmt.Println("\n--- Database Configuration ---")
	dbPath := prompt(reader, "SQLite database path", filepath.Join(defaultDataPath, "briefdesk.db"))
	voicesDir := prompt(reader, "Voice templates directory", filepath.Join(defaultDataPath, "voices"))

	fmt.Println("\n--- Auth Configuration ---")
	enableAuth := prompt(reader, "Enable owner secret?", "no")
	authEnabled := strings.ToLower(enableAuth) == "yes" || strings.ToLower(enableAuth) == "y"
	var secret string
	if authEnabled {
		secret = prompt(reader, "Owner secret", "")
	}

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")

	var cfg strings.Builder
	cfg.WriteString("# briefdesk configuration\n")
	cfg.WriteString("# Generated by briefdesk init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  name: %q\n", name))
	if watermark != "" {
		cfg.WriteString(fmt.Sprintf("  watermark: %q\n", watermark))
	}
	cfg.WriteString("\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n", dbPath))
	cfg.WriteString("\n")

	cfg.WriteString("voices:\n")
	cfg.WriteString(fmt.Sprintf("  dir: %q\n", voicesDir))
	cfg.WriteString("\n")

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  enabled: %t\n", authEnabled))
	if authEnabled {
		cfg.WriteString(fmt.Sprintf("  secret: %q\n", secret))
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))

	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(voicesDir, 0755); err != nil {
		return fmt.Errorf("creating voices directory: %w", err)
	}

	green := color.New(color.FgGreen)
	fmt.Println()
	green.Printf("  ✓ Config written: %s\n", outputFile)
	green.Printf("  ✓ Data directory: %s\n", filepath.Dir(dbPath))
	fmt.Println("\nTo start the server:")
	fmt.Println("  briefdesk serve")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

// setupLogger builds the stderr logger. Stdout is reserved for protocol
// frames, so even the colorized handler writes to stderr.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(&colorHandler{level: level})
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Fprint(os.Stderr, buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
