// ABOUTME: Tests for article CRUD handlers
// ABOUTME: Covers validation, auto-tagging, filtering, and not-found mapping

package tools

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/briefdesk/internal/enrich"
)

func createArticle(t *testing.T, env *Env, args string) map[string]any {
	t.Helper()
	result := mustCall(t, env, articleCreate, args)
	return result.(map[string]any)
}

func TestArticleCreate(t *testing.T) {
	env := newTestEnv(t)

	view := createArticle(t, env, `{"title":"Postgres vs SQLite","summary":"Choosing a database for small tools.","tags":["Opinion"]}`)

	id, ok := view["id"].(string)
	require.True(t, ok)
	assert.Len(t, id, 32)
	assert.Equal(t, StatusInbox, view["status"])

	tags := view["tags"].([]string)
	assert.Contains(t, tags, "databases") // suggested by enrichment
	assert.Contains(t, tags, "opinion")   // caller tag, normalized
}

func TestArticleCreate_ReportsSignals(t *testing.T) {
	env := newTestEnv(t)

	view := createArticle(t, env, `{"title":"Quiet headline","summary":"https://example.com/just-a-link"}`)
	sig := view["signals"].(enrich.Signals)
	assert.True(t, sig.LinkOnly)
	assert.False(t, sig.ShoutyTitle)
	assert.False(t, sig.Thin)

	view = createArticle(t, env, `{"title":"READ THIS RIGHT NOW","summary":"A thoughtful essay on how newsletters earn attention over time."}`)
	sig = view["signals"].(enrich.Signals)
	assert.True(t, sig.ShoutyTitle)
	assert.False(t, sig.Thin)
}

func TestArticleCreate_RequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	_, err := call(t, env, articleCreate, `{"title":"  "}`)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
}

func TestArticleCreate_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := call(t, env, articleCreate, `{"title":"X","status":"trending"}`)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
}

func TestArticleCreate_UnknownSource(t *testing.T) {
	env := newTestEnv(t)

	_, err := call(t, env, articleCreate, `{"title":"X","source_id":"ghost"}`)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestArticleGet_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := call(t, env, articleGet, `{"id":"missing"}`)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestArticleList_FilterByStatusAndTag(t *testing.T) {
	env := newTestEnv(t)

	createArticle(t, env, `{"title":"One","status":"read","tags":["keep"]}`)
	createArticle(t, env, `{"title":"Two","status":"inbox","tags":["keep"]}`)
	createArticle(t, env, `{"title":"Three","status":"read","tags":["drop"]}`)

	result := mustCall(t, env, articleList, `{"status":"read","tag":"keep"}`).(map[string]any)
	assert.Equal(t, 1, result["count"])

	articles := result["articles"].([]map[string]any)
	assert.Equal(t, "One", articles[0]["title"])
}

func TestArticleList_TagDoesNotMatchPrefix(t *testing.T) {
	env := newTestEnv(t)

	createArticle(t, env, `{"title":"One","tags":["go"]}`)
	createArticle(t, env, `{"title":"Two","tags":["golang"]}`)

	result := mustCall(t, env, articleList, `{"tag":"go"}`).(map[string]any)
	require.Equal(t, 1, result["count"])
	articles := result["articles"].([]map[string]any)
	assert.Equal(t, "One", articles[0]["title"])
}

func TestArticleUpdate(t *testing.T) {
	env := newTestEnv(t)
	created := createArticle(t, env, `{"title":"Before"}`)

	result := mustCall(t, env, articleUpdate,
		fmt.Sprintf(`{"id":%q,"title":"After","status":"shipped","open_rate":42.37}`, created["id"])).(map[string]any)

	assert.Equal(t, "After", result["title"])
	assert.Equal(t, "shipped", result["status"])
	assert.Equal(t, 42.4, result["open_rate"])
}

func TestArticleUpdate_PublishedAt(t *testing.T) {
	env := newTestEnv(t)
	created := createArticle(t, env, `{"title":"X"}`)

	result := mustCall(t, env, articleUpdate,
		fmt.Sprintf(`{"id":%q,"published_at":"2026-08-20T09:00:00Z"}`, created["id"])).(map[string]any)
	assert.Equal(t, "2026-08-20T09:00:00Z", result["published_at"])

	_, err := call(t, env, articleUpdate,
		fmt.Sprintf(`{"id":%q,"published_at":"yesterday"}`, created["id"]))
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
}

func TestArticleUpdateSchemaCoversHandlerFields(t *testing.T) {
	var update *Tool
	for _, tool := range ArticleTools() {
		if tool.Name == "article_update" {
			update = tool
		}
	}
	require.NotNil(t, update)

	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(update.InputSchema, &schema))

	for _, field := range []string{
		"id", "title", "url", "author", "status", "tags",
		"summary", "open_rate", "published_at",
	} {
		assert.Contains(t, schema.Properties, field)
	}
}

func TestArticleUpdate_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := call(t, env, articleUpdate, `{"id":"missing","title":"X"}`)
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestArticleUpdate_EmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	created := createArticle(t, env, `{"title":"X"}`)

	_, err := call(t, env, articleUpdate, fmt.Sprintf(`{"id":%q}`, created["id"]))
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeInvalidInput, domainErr.Code)
}

func TestArticleDelete(t *testing.T) {
	env := newTestEnv(t)
	created := createArticle(t, env, `{"title":"Doomed"}`)

	result := mustCall(t, env, articleDelete, fmt.Sprintf(`{"id":%q}`, created["id"])).(map[string]any)
	assert.Equal(t, true, result["deleted"])

	_, err := call(t, env, articleGet, fmt.Sprintf(`{"id":%q}`, created["id"]))
	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeNotFound, domainErr.Code)
}

func TestTagHelpers(t *testing.T) {
	assert.Equal(t, []string{}, splitTags(""))
	assert.Equal(t, []string{"a", "b"}, splitTags("a,b"))
	assert.Equal(t, "a,b", joinTags([]string{"a", "b"}))
	assert.Equal(t, []string{"ai", "go"}, mergeTags([]string{"Go", " ai "}, []string{"ai"}))
}
