package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/models"
	"portfolio-ai/internal/repository"
	"portfolio-ai/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes for the consumer interfaces above.

type fakeChat struct {
	lastMessage string
}

func (f *fakeChat) Chat(_ context.Context, message string) models.ChatAnswer {
	f.lastMessage = message
	return models.ChatAnswer{
		Response: "canned answer",
		Mode:     models.ModeKeyword,
		Sources:  []models.RetrievalMatch{{Text: "Project: Foo.", Type: models.ChunkProject, Score: 2}},
	}
}

type fakeDocs struct {
	raw        []byte
	replaceErr error
	replaced   []byte
}

func (f *fakeDocs) Raw() ([]byte, error) {
	if f.raw == nil {
		return nil, repository.ErrInvalidPortfolio
	}
	return f.raw, nil
}

func (f *fakeDocs) Replace(data []byte) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = data
	return nil
}

type fakeEmb struct {
	rebuildErr error
	rebuilt    int
	cache      *services.Cache
}

func (f *fakeEmb) Rebuild(context.Context) error {
	f.rebuilt++
	return f.rebuildErr
}

func (f *fakeEmb) Current() *services.Cache {
	if f.cache == nil {
		return &services.Cache{BuiltAt: time.Now()}
	}
	return f.cache
}

type fakeAnalytics struct {
	targets []string
}

func (f *fakeAnalytics) RecordClick(target string) services.ClickEvent {
	f.targets = append(f.targets, target)
	return services.ClickEvent{ID: "evt-1", Target: target, At: time.Now()}
}

func (f *fakeAnalytics) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for _, t := range f.targets {
		out[t]++
	}
	return out
}

func newTestHandler() (*Handler, *fakeChat, *fakeDocs, *fakeEmb, *fakeAnalytics) {
	chat := &fakeChat{}
	docs := &fakeDocs{raw: []byte(`{"profile":{"name":"Jane"}}`)}
	emb := &fakeEmb{cache: &services.Cache{
		Records: []models.EmbeddingRecord{{Chunk: models.Chunk{ID: "c1"}}},
		Scored:  true,
		BuiltAt: time.Now(),
	}}
	analytics := &fakeAnalytics{}
	h := NewHandler(chat, docs, emb, ai.NewDisabled(), analytics)
	return h, chat, docs, emb, analytics
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleChat(t *testing.T) {
	h, chat, _, _, _ := newTestHandler()

	t.Run("answers a question", func(t *testing.T) {
		rec := doJSON(t, h.HandleChat, "POST", `{"message": "what did you build"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var answer models.ChatAnswer
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
		assert.Equal(t, "canned answer", answer.Response)
		assert.Equal(t, models.ModeKeyword, answer.Mode)
		assert.Equal(t, "what did you build", chat.lastMessage)
	})

	t.Run("rejects empty message", func(t *testing.T) {
		rec := doJSON(t, h.HandleChat, "POST", `{"message": "   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "message is required")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := doJSON(t, h.HandleChat, "POST", `{"message":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetPortfolio(t *testing.T) {
	h, _, docs, _, _ := newTestHandler()

	rec := doJSON(t, h.GetPortfolio, "GET", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, string(docs.raw), rec.Body.String())

	docs.raw = nil
	rec = doJSON(t, h.GetPortfolio, "GET", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplacePortfolio(t *testing.T) {
	t.Run("stores and rebuilds", func(t *testing.T) {
		h, _, docs, emb, _ := newTestHandler()

		rec := doJSON(t, h.ReplacePortfolio, "PUT", `{"profile":{"name":"New"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"profile":{"name":"New"}}`, string(docs.replaced))
		assert.Equal(t, 1, emb.rebuilt)
		assert.NotContains(t, rec.Body.String(), "warning")
	})

	t.Run("invalid document is a client error", func(t *testing.T) {
		h, _, docs, emb, _ := newTestHandler()
		docs.replaceErr = repository.ErrInvalidPortfolio

		rec := doJSON(t, h.ReplacePortfolio, "PUT", `not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, emb.rebuilt, "rebuild must not run for a rejected document")
	})

	t.Run("empty document is stored with a warning", func(t *testing.T) {
		h, _, _, emb, _ := newTestHandler()
		emb.rebuildErr = services.ErrNoChunks

		rec := doJSON(t, h.ReplacePortfolio, "PUT", `{"profile":{"name":"New"}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "warning")
	})
}

func TestAIStatus(t *testing.T) {
	h, _, _, _, _ := newTestHandler()

	rec := doJSON(t, h.AIStatus, "GET", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Provider           string `json:"provider"`
		Configured         bool   `json:"configured"`
		SupportsEmbeddings bool   `json:"supports_embeddings"`
		Cache              struct {
			Chunks int  `json:"chunks"`
			Scored bool `json:"scored"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "disabled", status.Provider)
	assert.False(t, status.Configured)
	assert.Equal(t, 1, status.Cache.Chunks)
	assert.True(t, status.Cache.Scored)
}

func TestRecordClick(t *testing.T) {
	h, _, _, _, analytics := newTestHandler()

	rec := doJSON(t, h.RecordClick, "POST", `{"target": "project:Foo"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"project:Foo"}, analytics.targets)

	rec = doJSON(t, h.RecordClick, "POST", `{"target": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThemes(t *testing.T) {
	h, _, _, _, _ := newTestHandler()

	t.Run("defaults to light", func(t *testing.T) {
		rec := doJSON(t, h.ListThemes, "GET", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"current":"light"`)
	})

	t.Run("reads the cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "theme", Value: "terminal"})
		rec := httptest.NewRecorder()
		h.ListThemes(rec, req)
		assert.Contains(t, rec.Body.String(), `"current":"terminal"`)
	})

	t.Run("selecting a theme sets the cookie", func(t *testing.T) {
		rec := doJSON(t, h.SelectTheme, "PUT", `{"theme": "dark"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "theme", cookies[0].Name)
		assert.Equal(t, "dark", cookies[0].Value)
	})

	t.Run("unknown theme is rejected", func(t *testing.T) {
		rec := doJSON(t, h.SelectTheme, "PUT", `{"theme": "solarized"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// Routing through the full router exercises the middleware chain and the
// basic auth guard on admin endpoints.

func TestAdminRoutesRequireAuth(t *testing.T) {
	h, _, _, _, _ := newTestHandler()
	router := SetupRoutes(h, "admin", "hunter2")

	t.Run("no credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/ai-status", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/ai-status", nil)
		req.SetBasicAuth("admin", "guess")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/ai-status", nil)
		req.SetBasicAuth("admin", "hunter2")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public routes stay open", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminDisabledWithoutPassword(t *testing.T) {
	h, _, _, _, _ := newTestHandler()
	router := SetupRoutes(h, "admin", "")

	req := httptest.NewRequest("GET", "/api/admin/analytics", nil)
	req.SetBasicAuth("admin", "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
