package interfaces

import (
	"context"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// KnowledgeStore exposes the flattened knowledge base. It is read-only
// after a successful Load and may be shared across goroutines.
type KnowledgeStore interface {
	// Records returns every record of the loaded knowledge base
	Records() []*model.Record

	// Lookup returns records for a school filtered by category and,
	// when topic is non-empty, by topic. Missing data yields an empty
	// slice, not an error.
	Lookup(school types.School, category types.Category, topic string) []*model.Record

	// References returns the canonical reference works record for a school
	References(school types.School) []*model.Record

	// Size returns the number of loaded records
	Size() int
}

// Retriever answers top-k semantic queries over the knowledge base
type Retriever interface {
	Query(ctx context.Context, q *model.Query) ([]*model.RetrievalResult, error)

	// Ready reports whether the index has been built and can serve queries
	Ready() bool
}
