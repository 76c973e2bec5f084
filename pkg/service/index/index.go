package index

import (
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// Entry pairs a knowledge record with its embedding vector
type Entry struct {
	Record *model.Record
	Vector []float64
}

// Filter restricts a search to records matching the non-empty fields
type Filter struct {
	School   types.School
	Category types.Category
}

type entry struct {
	record *model.Record
	vector []float64 // unit-normalized at build time
}

// Index is an in-process vector index over the knowledge base. Build
// installs a complete snapshot under the write lock, so searches running
// concurrently with a rebuild see either the old index or the new one,
// never a mix.
type Index struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Index {
	return &Index{}
}

// Build replaces the index contents. Every vector must have the expected
// dimension; a dimension mismatch rejects the whole batch and leaves the
// current snapshot serving.
func (x *Index) Build(entries []Entry) error {
	built := make([]entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) != model.EmbeddingDimension {
			return goerr.New("embedding dimension mismatch",
				goerr.V("record_id", e.Record.ID),
				goerr.V("got", len(e.Vector)),
				goerr.V("want", model.EmbeddingDimension),
				goerr.T(types.ErrTagEmbedding))
		}
		built = append(built, entry{
			record: e.Record.Clone(),
			vector: normalize(e.Vector),
		})
	}

	// Keep ranking deterministic for tied scores
	sort.Slice(built, func(i, j int) bool {
		return built[i].record.ID < built[j].record.ID
	})

	x.mu.Lock()
	x.entries = built
	x.mu.Unlock()

	return nil
}

// Size returns the number of indexed records
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.entries)
}

// Ready reports whether the index holds at least one record
func (x *Index) Ready() bool {
	return x.Size() > 0
}

// Search returns up to k records ranked by cosine similarity against the
// query vector. The filter is applied before ranking, so a filtered search
// over a large base still returns up to k matching records. Results are
// ordered by descending score, ties broken by record ID ascending.
func (x *Index) Search(vector []float64, k int, filter Filter) ([]*model.RetrievalResult, error) {
	if len(vector) != model.EmbeddingDimension {
		return nil, goerr.New("query vector dimension mismatch",
			goerr.V("got", len(vector)),
			goerr.V("want", model.EmbeddingDimension),
			goerr.T(types.ErrTagEmbedding))
	}
	if k < 1 {
		return nil, goerr.New("k must be >= 1", goerr.V("k", k), goerr.T(types.ErrTagInvalidArgument))
	}

	query := normalize(vector)

	x.mu.RLock()
	defer x.mu.RUnlock()

	var results []*model.RetrievalResult
	for _, e := range x.entries {
		if filter.School != "" && e.record.School != filter.School {
			continue
		}
		if filter.Category != "" && e.record.Category != filter.Category {
			continue
		}

		results = append(results, &model.RetrievalResult{
			RecordID: e.record.ID,
			Text:     e.record.Text,
			Score:    dot(query, e.vector),
			School:   e.record.School,
			Category: e.record.Category,
			Topic:    e.record.Topic,
			Metadata: e.record.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].RecordID < results[j].RecordID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// normalize returns a unit-length copy of v. Cosine similarity over unit
// vectors reduces to a dot product.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)

	out := make([]float64, len(v))
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
