// ABOUTME: Voice template loading for draft generation
// ABOUTME: Templates are TOML files in the configured voices directory

package voice

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Template describes a newsletter voice: the fixed copy wrapped around
// article content when generating a draft.
type Template struct {
	Name     string   `toml:"-"`
	Greeting string   `toml:"greeting"`
	SignOff  string   `toml:"sign_off"`
	Tone     string   `toml:"tone"`
	Sections []string `toml:"sections"`
}

// Library loads voice templates from a directory, one <name>.toml per voice.
type Library struct {
	dir    string
	logger *slog.Logger
}

// NewLibrary creates a Library rooted at dir. The directory need not exist
// yet; Load and List report what they find at call time.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:    dir,
		logger: slog.Default().With("component", "voice"),
	}
}

var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Load reads and parses the named voice template.
func (l *Library) Load(name string) (*Template, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid voice name %q", name)
	}

	path := filepath.Join(l.dir, name+".toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("voice %q not found", name)
		}
		return nil, fmt.Errorf("reading voice %q: %w", name, err)
	}

	var tpl Template
	if err := toml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parsing voice %q: %w", name, err)
	}
	tpl.Name = name

	if len(tpl.Sections) == 0 {
		tpl.Sections = []string{"This Week"}
	}

	l.logger.Debug("voice loaded", "name", name, "sections", len(tpl.Sections))
	return &tpl, nil
}

// List returns the names of all templates in the library, sorted.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading voices directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	return names, nil
}
