package api

import (
	"context"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
)

// This package is the consumer of the services, so the interfaces it needs
// live here. Handlers only declare the methods they actually call, which
// keeps mocks small and avoids circular dependencies.

// IngestService adds documents to the knowledge base.
type IngestService interface {
	AddDocument(ctx context.Context, title, content, source string) (int, error)
	SeedSampleDocuments(ctx context.Context) (int, error)
}

// DocumentStore reads back what has been ingested.
type DocumentStore interface {
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)
	ChunksOf(ctx context.Context, title string) ([]models.Chunk, error)
	Stats(ctx context.Context) (models.KnowledgeStats, error)
}

// Searcher runs semantic search over the knowledge base.
type Searcher interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error)
}

// Agent answers a chat message against a conversation history.
type Agent interface {
	Chat(ctx context.Context, message string, history []models.Turn) string
}
