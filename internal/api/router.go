package api

import (
	"net/http"

	"portfolio-ai/internal/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes(h *Handler, adminUser, adminPassword string) *mux.Router {
	r := mux.NewRouter()

	// Middleware runs in order: tracing first, then recovery, then CORS.
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.ErrorRecoveryMiddleware)
	r.Use(middleware.CORSMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints
	api.HandleFunc("/chat", h.HandleChat).Methods("POST")
	api.HandleFunc("/portfolio", h.GetPortfolio).Methods("GET")
	api.HandleFunc("/themes", h.ListThemes).Methods("GET")
	api.HandleFunc("/theme", h.SelectTheme).Methods("PUT")
	api.HandleFunc("/analytics/click", h.RecordClick).Methods("POST")

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin endpoints behind basic auth
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.BasicAuth(adminUser, adminPassword))
	admin.HandleFunc("/portfolio", h.ReplacePortfolio).Methods("PUT")
	admin.HandleFunc("/ai-status", h.AIStatus).Methods("GET")
	admin.HandleFunc("/analytics", h.GetAnalytics).Methods("GET")

	// WebSocket chat
	r.HandleFunc("/ws/chat", h.HandleChatWebSocket)

	// Portfolio page and theme assets
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./web/static/index.html")
	})
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./web/static/"))))

	return r
}
