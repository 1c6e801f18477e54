package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
)

/*
VERSIONED SNAPSHOT INDEX

The similarity index is rebuilt from scratch after every ingestion, so instead
of mutating a shared structure we build a complete new snapshot off to the
side and swap a single atomic pointer. Readers either see the old snapshot or
the new one, never a half-built index, and searches already in flight keep
using the snapshot they started with.
*/

// ErrEmptyIndex reports that no snapshot has been built yet (or the corpus is
// empty). It is a normal state, not a failure: callers present a friendly
// "knowledge base is empty" response instead of an error.
var ErrEmptyIndex = errors.New("vector index is empty")

// Entry pairs a vector position with the chunk it was built from. The entries
// slice is parallel to the vectors slice, position for position, so a search
// hit resolves to its chunk without ambiguity.
type Entry struct {
	ChunkID uint
	Content string
}

// Hit is a single search result: a position into the snapshot's entry list
// and the inner-product score. With unit-normalized vectors the score is the
// cosine similarity, in [-1, 1].
type Hit struct {
	Position int
	Score    float64
}

// snapshot is one immutable generation of the index.
type snapshot struct {
	dimension int
	vectors   [][]float32
	entries   []Entry
}

// Index is a flat inner-product similarity index over unit-normalized
// vectors. Zero value is ready to use (in the empty state).
type Index struct {
	current atomic.Pointer[snapshot]
}

func New() *Index {
	return &Index{}
}

// Swap atomically replaces the current snapshot with one built from the given
// parallel entry and vector lists. Vectors are expected to be unit-normalized
// already (see Normalize).
func (ix *Index) Swap(entries []Entry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("entries and vectors length mismatch: %d vs %d", len(entries), len(vectors))
	}
	if len(entries) == 0 {
		ix.Clear()
		return nil
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d dimension mismatch: got %d, expected %d", i, len(v), dim)
		}
	}

	snap := &snapshot{
		dimension: dim,
		vectors:   vectors,
		entries:   entries,
	}
	ix.current.Store(snap)
	return nil
}

// Clear drops the current snapshot, returning the index to its empty state.
// Rebuilding over a corpus of zero chunks ends up here.
func (ix *Index) Clear() {
	ix.current.Store(nil)
}

// Size returns the number of indexed vectors.
func (ix *Index) Size() int {
	snap := ix.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// Search returns the topK positions by inner product, descending by score.
// Returns ErrEmptyIndex when no snapshot exists so callers can distinguish
// "nothing indexed" from "no good match".
func (ix *Index) Search(query []float32, topK int) ([]Hit, error) {
	snap := ix.current.Load()
	if snap == nil {
		return nil, ErrEmptyIndex
	}
	if len(query) != snap.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), snap.dimension)
	}
	if topK <= 0 {
		topK = 3
	}

	hits := make([]Hit, len(snap.vectors))
	for i, vec := range snap.vectors {
		var dot float64
		for j := range vec {
			dot += float64(query[j]) * float64(vec[j])
		}
		hits[i] = Hit{Position: i, Score: dot}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// EntryAt resolves a search position back to its chunk. A false return means
// the position does not exist in the current snapshot (e.g. the position came
// from an older generation); callers drop such hits silently.
func (ix *Index) EntryAt(position int) (Entry, bool) {
	snap := ix.current.Load()
	if snap == nil || position < 0 || position >= len(snap.entries) {
		return Entry{}, false
	}
	return snap.entries[position], true
}

// Normalize scales v to unit length in place. Zero vectors are left alone so
// they simply never score well rather than producing NaNs.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
