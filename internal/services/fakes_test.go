package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
)

// Hand-written fakes shared by the service tests.

// scriptedGenerator returns canned responses in order and records the
// prompts it saw. Once the script runs out it keeps returning the last
// response.
type scriptedGenerator struct {
	responses []string
	prompts   []string
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) string {
	g.prompts = append(g.prompts, prompt)
	if len(g.responses) == 0 {
		return ""
	}
	response := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	return response
}

// bagOfWordsEmbedder hashes words into a fixed number of buckets, so texts
// sharing vocabulary get similar vectors. Deterministic, no model needed.
type bagOfWordsEmbedder struct{}

const embedderDim = 64

func (bagOfWordsEmbedder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, embedderDim)
		word := make([]rune, 0, 16)
		flush := func() {
			if len(word) == 0 {
				return
			}
			h := fnv.New32a()
			h.Write([]byte(string(word)))
			v[h.Sum32()%embedderDim]++
			word = word[:0]
		}
		for _, r := range text {
			if r == ' ' || r == '\n' || r == '\t' || r == '.' || r == ',' || r == ':' || r == '?' {
				flush()
				continue
			}
			word = append(word, r)
		}
		flush()

		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if sum > 0 {
			norm := float32(math.Sqrt(sum))
			for j := range v {
				v[j] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors, nil
}

// failingEmbedder always errors, for exercising degraded paths.
type failingEmbedder struct{ err error }

func (e failingEmbedder) Encode(context.Context, []string) ([][]float32, error) {
	return nil, e.err
}

// memoryChunkRepo is an in-memory ChunkRepository.
type memoryChunkRepo struct {
	chunks []models.Chunk
	nextID uint

	createErr error
	allErr    error
}

func newMemoryChunkRepo() *memoryChunkRepo {
	return &memoryChunkRepo{nextID: 1}
}

func (r *memoryChunkRepo) CreateChunks(_ context.Context, title, source string, contents []string) ([]models.Chunk, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	created := make([]models.Chunk, 0, len(contents))
	for i, content := range contents {
		chunk := models.Chunk{
			ID:         r.nextID,
			Title:      title,
			Source:     source,
			ChunkIndex: i,
			Content:    content,
			CreatedAt:  time.Now(),
		}
		r.nextID++
		r.chunks = append(r.chunks, chunk)
		created = append(created, chunk)
	}
	return created, nil
}

// ListDocuments mirrors the real repository's contract: groups keyed by
// (title, source), ordered by each group's latest chunk time descending, so
// a re-ingested title surfaces at the top.
func (r *memoryChunkRepo) ListDocuments(context.Context) ([]models.DocumentSummary, error) {
	type group struct {
		summary models.DocumentSummary
		latest  time.Time
	}

	seen := make(map[string]int)
	var groups []group
	for _, c := range r.chunks {
		key := c.Title + "\x00" + c.Source
		if pos, ok := seen[key]; ok {
			groups[pos].summary.ChunkCount++
			if c.CreatedAt.After(groups[pos].latest) {
				groups[pos].latest = c.CreatedAt
			}
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, group{
			summary: models.DocumentSummary{
				Title:      c.Title,
				Source:     c.Source,
				ChunkCount: 1,
				CreatedAt:  c.CreatedAt,
			},
			latest: c.CreatedAt,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].latest.After(groups[j].latest)
	})

	summaries := make([]models.DocumentSummary, len(groups))
	for i, g := range groups {
		summaries[i] = g.summary
	}
	return summaries, nil
}

func (r *memoryChunkRepo) ChunksOf(_ context.Context, title string) ([]models.Chunk, error) {
	var out []models.Chunk
	for _, c := range r.chunks {
		if c.Title == title {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryChunkRepo) AllChunks(context.Context) ([]models.Chunk, error) {
	if r.allErr != nil {
		return nil, r.allErr
	}
	out := make([]models.Chunk, len(r.chunks))
	copy(out, r.chunks)
	return out, nil
}

func (r *memoryChunkRepo) ResolveMeta(_ context.Context, chunkID uint) (string, string, error) {
	for _, c := range r.chunks {
		if c.ID == chunkID {
			return c.Title, c.Source, nil
		}
	}
	return "", "", fmt.Errorf("chunk not found: %d", chunkID)
}

func (r *memoryChunkRepo) Stats(context.Context) (models.KnowledgeStats, error) {
	docs := make(map[string]struct{})
	for _, c := range r.chunks {
		docs[c.Title+"\x00"+c.Source] = struct{}{}
	}
	return models.KnowledgeStats{
		Documents: int64(len(docs)),
		Chunks:    int64(len(r.chunks)),
	}, nil
}

// fakeCalendar returns canned events.
type fakeCalendar struct {
	events []models.CalendarEvent
	err    error

	gotMin, gotMax time.Time
}

func (c *fakeCalendar) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	c.gotMin, c.gotMax = timeMin, timeMax
	if c.err != nil {
		return nil, c.err
	}
	return c.events, nil
}

// fakeEmail records the draft it was asked to create.
type fakeEmail struct {
	draftID string
	err     error

	gotSubject, gotBody string
}

func (e *fakeEmail) CreateDraft(_ context.Context, subject, body string) (string, error) {
	e.gotSubject, e.gotBody = subject, body
	if e.err != nil {
		return "", e.err
	}
	return e.draftID, nil
}

// noopIndexer counts rebuild requests.
type noopIndexer struct{ rebuilds int }

func (i *noopIndexer) RequestRebuild() { i.rebuilds++ }
