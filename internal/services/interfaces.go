package services

import (
	"context"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
)

/*
Interfaces are defined here, where they are consumed, not next to their
implementations ("accept interfaces, return structs"). The services only
declare the methods they actually call, which keeps the external
collaborators - storage, Ollama, Google - trivially mockable in tests.
*/

// ChunkRepository defines what the services need from durable chunk storage.
type ChunkRepository interface {
	CreateChunks(ctx context.Context, title, source string, contents []string) ([]models.Chunk, error)
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)
	ChunksOf(ctx context.Context, title string) ([]models.Chunk, error)
	AllChunks(ctx context.Context) ([]models.Chunk, error)
	ResolveMeta(ctx context.Context, chunkID uint) (title, source string, err error)
	Stats(ctx context.Context) (models.KnowledgeStats, error)
}

// Embedder maps text to fixed-dimension vectors. The dimension is fixed by
// the model for the process lifetime.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator is the generative-language collaborator. Failures surface as an
// error message inside the returned text, never as an error value - parsers
// downstream treat unusable output like ambiguous output and fall back to
// defaults.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

// CalendarClient lists events in a bounded time range.
type CalendarClient interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error)
}

// EmailClient creates a draft and returns the provider's draft identifier.
type EmailClient interface {
	CreateDraft(ctx context.Context, subject, body string) (string, error)
}
