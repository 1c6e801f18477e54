package api

import (
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes(h *Handler) *mux.Router {
	r := mux.NewRouter()

	// Middleware runs in order: tracing first, then recovery, then CORS
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.ErrorRecoveryMiddleware)
	r.Use(middleware.CORSMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Knowledge base endpoints
	api.HandleFunc("/documents", h.AddDocument).Methods("POST")
	api.HandleFunc("/documents", h.ListDocuments).Methods("GET")
	api.HandleFunc("/documents/seed", h.SeedDocuments).Methods("POST")
	api.HandleFunc("/documents/{title}/chunks", h.GetDocumentChunks).Methods("GET")
	api.HandleFunc("/search", h.Search).Methods("POST")

	// Agent endpoints
	api.HandleFunc("/chat", h.Chat).Methods("POST")

	// Health check endpoint
	api.HandleFunc("/health", h.Health).Methods("GET")

	// WebSocket chat
	r.HandleFunc("/ws/chat", h.HandleChatWebSocket)

	return r
}
