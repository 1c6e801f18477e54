package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/index"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"

	"go.opentelemetry.io/otel/attribute"
)

/*
REBUILD SCHEDULER

Every ingestion invalidates the whole vector index (full rebuild, no
incremental patching), so the scheduler is a single worker goroutine with a
one-slot signal channel. Back-to-back ingestions coalesce into one rebuild,
and readers keep searching the previous snapshot until the new one is swapped
in.
*/

// IndexerImpl owns the vector index lifecycle: it re-embeds the full chunk
// corpus and atomically swaps in a fresh snapshot.
type IndexerImpl struct {
	embedder Embedder
	repo     ChunkRepository
	index    *index.Index

	signal chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewIndexer creates an indexer over the given index. Call Start to begin
// processing rebuild requests.
func NewIndexer(embedder Embedder, repo ChunkRepository, ix *index.Index) *IndexerImpl {
	return &IndexerImpl{
		embedder: embedder,
		repo:     repo,
		index:    ix,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start spawns the rebuild worker.
func (s *IndexerImpl) Start() {
	log.Println("🔧 Starting index rebuild worker")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.done:
				return
			case <-s.signal:
				if err := s.RebuildNow(context.Background()); err != nil {
					// Leave the previous snapshot serving queries; the next
					// ingestion will request another rebuild.
					log.Printf("⚠️  Index rebuild failed: %v", err)
				}
			}
		}
	}()
}

// RequestRebuild schedules a rebuild. Non-blocking: if one is already
// pending, the request merges with it.
func (s *IndexerImpl) RequestRebuild() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// RebuildNow synchronously re-embeds the entire corpus and swaps the new
// snapshot in. An empty corpus clears the index back to its empty state.
func (s *IndexerImpl) RebuildNow(ctx context.Context) error {
	ctx, span := middleware.StartSpan(ctx, "Indexer.Rebuild")
	defer span.End()

	chunks, err := s.repo.AllChunks(ctx)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return fmt.Errorf("load corpus: %w", err)
	}

	if len(chunks) == 0 {
		s.index.Clear()
		log.Println("🔍 Vector index cleared (no documents)")
		return nil
	}

	texts := make([]string, len(chunks))
	entries := make([]index.Entry, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
		entries[i] = index.Entry{ChunkID: c.ID, Content: c.Content}
	}

	vectors, err := s.embedder.Encode(ctx, texts)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return fmt.Errorf("embed corpus: %w", err)
	}

	// Normalize so inner product equals cosine similarity
	for _, v := range vectors {
		index.Normalize(v)
	}

	if err := s.index.Swap(entries, vectors); err != nil {
		middleware.AddSpanError(ctx, err)
		return fmt.Errorf("swap index: %w", err)
	}

	span.SetAttributes(attribute.Int("index.size", len(entries)))
	log.Printf("🔍 Built vector index with %d document chunks", len(entries))
	return nil
}

// Shutdown stops the rebuild worker and waits for an in-flight rebuild to
// finish.
func (s *IndexerImpl) Shutdown() {
	log.Println("🛑 Shutting down index rebuild worker...")
	close(s.done)
	s.wg.Wait()
	log.Println("✓ Index rebuild worker shutdown complete")
}
