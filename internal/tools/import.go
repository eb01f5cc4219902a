// ABOUTME: Import tool bridging the registry to the file import connector
// ABOUTME: Owner-only; reports imported/skipped counts

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/briefdesk/internal/auth"
	"github.com/2389/briefdesk/internal/importer"
)

// ImportTools returns the import tool catalog entries.
func ImportTools() []*Tool {
	return []*Tool{
		{
			Name:         "import_articles",
			Description:  "Import articles from a platform export file (JSON)",
			InputSchema:  json.RawMessage(`{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`),
			RequireOwner: true,
			Handler:      importArticles,
		},
	}
}

type importInput struct {
	Path string `json:"path"`
}

func importArticles(ctx context.Context, args json.RawMessage, _ *auth.Context, env *Env) (any, error) {
	var in importInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, InvalidInput(fmt.Sprintf("invalid arguments: %v", err))
	}
	if in.Path == "" {
		return nil, InvalidInput("path is required")
	}

	res, err := importer.ImportFile(ctx, env.Store, in.Path)
	if err != nil {
		return nil, err
	}
	return res, nil
}
