package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// DefaultTopK is the number of results a query returns unless overridden
const DefaultTopK = 5

// Query describes one similarity search against the knowledge base
type Query struct {
	Text     string
	School   types.School   // optional: restrict to one school
	Category types.Category // optional: restrict to one category
	TopK     int
}

// Validate checks the query parameters
func (q *Query) Validate() error {
	if q.Text == "" {
		return goerr.New("query text is required", goerr.T(types.ErrTagInvalidArgument))
	}
	if q.TopK < 1 {
		return goerr.New("top_k must be >= 1",
			goerr.V("top_k", q.TopK), goerr.T(types.ErrTagInvalidArgument))
	}
	if q.School != "" {
		if err := q.School.Validate(); err != nil {
			return goerr.Wrap(err, "invalid school filter")
		}
	}
	if q.Category != "" {
		if err := q.Category.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category filter")
		}
	}
	return nil
}

// RetrievalResult is one ranked hit of a similarity query. Results are
// ordered by descending score; equal scores are ordered by record ID
// ascending so a fixed index always yields the same ranking.
type RetrievalResult struct {
	RecordID RecordID
	Text     string
	Score    float64
	School   types.School
	Category types.Category
	Topic    string
	Metadata map[string]string
}
