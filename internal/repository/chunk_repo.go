package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"gorm.io/gorm"
)

// StorageError marks a persistence failure. Callers at the API boundary
// convert it into a user-facing message instead of letting it kill the
// session; it is never retried silently.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ChunkRepositoryImpl handles all database operations for document chunks.
// This is the IMPLEMENTATION - the services package declares the interface it
// needs.
type ChunkRepositoryImpl struct {
	db *gorm.DB
}

// NewChunkRepository creates a new chunk repository.
// Returns concrete type - "Accept interfaces, return structs"
func NewChunkRepository(db *gorm.DB) *ChunkRepositoryImpl {
	return &ChunkRepositoryImpl{db: db}
}

// CreateChunks persists one ingested document as an ordered set of chunks.
// All rows are written in a single transaction: either the whole document
// lands or none of it does, so a failed ingestion never leaves a document
// half-chunked.
func (r *ChunkRepositoryImpl) CreateChunks(ctx context.Context, title, source string, contents []string) ([]models.Chunk, error) {
	chunks := make([]models.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{
			Title:      title,
			Source:     source,
			ChunkIndex: i,
			Content:    content,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&chunks).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "create chunks", Err: err}
	}

	return chunks, nil
}

// ListDocuments returns display summaries grouped by (title, source), most
// recently ingested first. No uniqueness is enforced at write time, so a
// re-ingested title shows up as one group with the combined chunk count, and
// re-ingesting moves it back to the top of the listing.
func (r *ChunkRepositoryImpl) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	var summaries []models.DocumentSummary

	// Raw SQL since GORM's Group() gets awkward with aggregate ordering
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			title,
			source,
			COUNT(*) AS chunk_count,
			MIN(created_at) AS created_at
		FROM chunks
		GROUP BY title, source
		ORDER BY MAX(created_at) DESC
	`).Scan(&summaries).Error

	if err != nil {
		return nil, &StorageError{Op: "list documents", Err: err}
	}

	return summaries, nil
}

// ChunksOf returns all chunks for a title in document order.
func (r *ChunkRepositoryImpl) ChunksOf(ctx context.Context, title string) ([]models.Chunk, error) {
	var chunks []models.Chunk

	err := r.db.WithContext(ctx).
		Where("title = ?", title).
		Order("chunk_index ASC, id ASC").
		Find(&chunks).Error

	if err != nil {
		return nil, &StorageError{Op: "chunks of " + title, Err: err}
	}

	return chunks, nil
}

// AllChunks returns every chunk's id and content, id ascending. This feeds
// index rebuilds, which re-embed the full corpus.
func (r *ChunkRepositoryImpl) AllChunks(ctx context.Context) ([]models.Chunk, error) {
	var chunks []models.Chunk

	err := r.db.WithContext(ctx).
		Select("id", "content").
		Order("id ASC").
		Find(&chunks).Error

	if err != nil {
		return nil, &StorageError{Op: "load all chunks", Err: err}
	}

	return chunks, nil
}

// ResolveMeta looks up the (title, source) a chunk id belongs to. A miss is
// possible when the index briefly lags the store; the retrieval path drops
// such hits rather than failing the query.
func (r *ChunkRepositoryImpl) ResolveMeta(ctx context.Context, chunkID uint) (title, source string, err error) {
	var chunk models.Chunk

	e := r.db.WithContext(ctx).
		Select("title", "source").
		First(&chunk, "id = ?", chunkID).Error
	if errors.Is(e, gorm.ErrRecordNotFound) {
		return "", "", fmt.Errorf("chunk not found: %d", chunkID)
	}
	if e != nil {
		return "", "", &StorageError{Op: "resolve chunk metadata", Err: e}
	}

	return chunk.Title, chunk.Source, nil
}

// Stats returns document and chunk counts for the knowledge base.
func (r *ChunkRepositoryImpl) Stats(ctx context.Context) (models.KnowledgeStats, error) {
	var stats models.KnowledgeStats

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT (title, source)) AS documents,
			COUNT(*) AS chunks
		FROM chunks
	`).Scan(&stats).Error

	if err != nil {
		return models.KnowledgeStats{}, &StorageError{Op: "stats", Err: err}
	}

	return stats, nil
}
