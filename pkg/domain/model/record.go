package model

import (
	"strings"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions. The index and every query
// must use the same embedding model and dimension; mixing versions makes
// similarity scores meaningless.
const EmbeddingDimension = 768

// RecordID identifies a knowledge record. It is derived from the record's
// path in the source hierarchy (e.g. "syafii/ritual-law/wudhu"), so loading
// the same source twice yields the same IDs.
type RecordID string

// NewRecordID builds a RecordID from hierarchy path segments
func NewRecordID(parts ...string) RecordID {
	return RecordID(strings.Join(parts, "/"))
}

// String returns the string representation of RecordID
func (id RecordID) String() string {
	return string(id)
}

// Record is an atomic retrievable unit of the knowledge base: one chunk of
// text with the metadata used for filtered retrieval. Records are read-only
// after load.
type Record struct {
	ID       RecordID
	School   types.School // empty for cross-school records (comparison, etiquette)
	Category types.Category
	Topic    string // e.g. "wudhu", "shalat"; empty when not topic-bound
	Text     string
	Metadata map[string]string
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	copied := &Record{
		ID:       r.ID,
		School:   r.School,
		Category: r.Category,
		Topic:    r.Topic,
		Text:     r.Text,
	}
	if r.Metadata != nil {
		copied.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			copied.Metadata[k] = v
		}
	}
	return copied
}
