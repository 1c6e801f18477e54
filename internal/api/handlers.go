package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/index"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/repository"

	"github.com/gorilla/mux"
)

// Handler handles HTTP requests using the consumer-driven interfaces
// defined in this package.
type Handler struct {
	ingest    IngestService
	store     DocumentStore
	searcher  Searcher
	agent     Agent
	wsHandler http.HandlerFunc
}

func NewHandler(ingest IngestService, store DocumentStore, searcher Searcher, agent Agent, wsHandler http.HandlerFunc) *Handler {
	return &Handler{
		ingest:    ingest,
		store:     store,
		searcher:  searcher,
		agent:     agent,
		wsHandler: wsHandler,
	}
}

type addDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	chunkCount, err := h.ingest.AddDocument(r.Context(), req.Title, req.Content, req.Source)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"title":       req.Title,
		"chunk_count": chunkCount,
	})
}

func (h *Handler) SeedDocuments(w http.ResponseWriter, r *http.Request) {
	added, err := h.ingest.SeedSampleDocuments(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents_added": added,
	})
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.store.ListDocuments(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"documents": documents,
		"stats":     stats,
	})
}

func (h *Handler) GetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	title := vars["title"]

	chunks, err := h.store.ChunksOf(r.Context(), title)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if len(chunks) == 0 {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"title":  title,
		"chunks": chunks,
	})
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := h.searcher.Retrieve(r.Context(), req.Query, req.TopK)
	if err != nil {
		// An empty knowledge base is a normal state, not a failure:
		// searching it just finds nothing
		if !errors.Is(err, index.ErrEmptyIndex) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		results = nil
	}
	if results == nil {
		results = []models.RetrievalResult{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"query":   req.Query,
		"results": results,
	})
}

type chatRequest struct {
	Message string        `json:"message"`
	History []models.Turn `json:"history"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	response := h.agent.Chat(r.Context(), req.Message, req.History)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"response": response,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"stats":  stats,
	})
}

func (h *Handler) HandleChatWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHandler(w, r)
}

// writeStorageError maps repository failures to a 500 with the operation
// name preserved for debugging.
func writeStorageError(w http.ResponseWriter, err error) {
	var storageErr *repository.StorageError
	if errors.As(err, &storageErr) {
		http.Error(w, storageErr.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
