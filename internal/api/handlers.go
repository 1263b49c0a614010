package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"portfolio-ai/internal/ai"
	"portfolio-ai/internal/repository"
	"portfolio-ai/internal/services"
)

// maxUploadBytes bounds admin portfolio uploads.
const maxUploadBytes = 2 << 20

// themes the public site can switch between; the selection is persisted in
// a cookie, the CSS lives under web/static.
var themes = []string{"light", "dark", "terminal"}

// Handler handles HTTP requests. Dependencies arrive as the interfaces
// declared in this package, so tests swap them freely.
type Handler struct {
	chat      ChatService
	docs      DocumentStore
	emb       EmbeddingStore
	provider  ai.Provider
	analytics Analytics
}

func NewHandler(
	chat ChatService,
	docs DocumentStore,
	emb EmbeddingStore,
	provider ai.Provider,
	analytics Analytics,
) *Handler {
	return &Handler{
		chat:      chat,
		docs:      docs,
		emb:       emb,
		provider:  provider,
		analytics: analytics,
	}
}

// Chat handlers

// HandleChat is the boundary of the chat pipeline. The only failure a client
// can see here is an empty message; everything deeper has already been
// absorbed into a fallback answer string.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer := h.chat.Chat(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, answer)
}

// Portfolio handlers

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := h.docs.Raw()
	if err != nil {
		writeError(w, http.StatusNotFound, "portfolio not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// ReplacePortfolio swaps in a new document, backs up the old one, and
// rebuilds the embedding cache so the next chat request already answers
// from the new content.
func (h *Handler) ReplacePortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	if err := h.docs.Replace(data); err != nil {
		if errors.Is(err, repository.ErrInvalidPortfolio) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	warning := ""
	if err := h.emb.Rebuild(r.Context()); err != nil {
		if !errors.Is(err, services.ErrNoChunks) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		warning = "portfolio stored but produced no retrievable content"
	}

	cache := h.emb.Current()
	resp := map[string]any{
		"message": "portfolio replaced",
		"chunks":  len(cache.Records),
		"scored":  cache.Scored,
	}
	if warning != "" {
		resp["warning"] = warning
	}
	writeJSON(w, http.StatusOK, resp)
}

// Admin diagnostics

// AIStatus is a pass-through view of the provider and cache for the admin
// panel; no core logic lives here.
func (h *Handler) AIStatus(w http.ResponseWriter, r *http.Request) {
	cache := h.emb.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"provider":            h.provider.Name(),
		"configured":          h.provider.IsConfigured(),
		"supports_embeddings": h.provider.SupportsEmbeddings(),
		"models":              h.provider.Models(),
		"cache": map[string]any{
			"chunks":   len(cache.Records),
			"scored":   cache.Scored,
			"built_at": cache.BuiltAt,
		},
	})
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"clicks": h.analytics.Snapshot(),
	})
}

// Public site handlers

func (h *Handler) RecordClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Target) == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	event := h.analytics.RecordClick(req.Target)
	writeJSON(w, http.StatusAccepted, event)
}

func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	current := "light"
	if c, err := r.Cookie("theme"); err == nil && isTheme(c.Value) {
		current = c.Value
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"themes":  themes,
		"current": current,
	})
}

func (h *Handler) SelectTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !isTheme(req.Theme) {
		writeError(w, http.StatusBadRequest, "unknown theme")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "theme",
		Value:    req.Theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"theme": req.Theme})
}

func isTheme(name string) bool {
	for _, t := range themes {
		if t == name {
			return true
		}
	}
	return false
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
