package knowledge

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// Store holds the flattened knowledge base. Load replaces the whole state
// atomically; a failed load leaves the previous state untouched. All read
// paths work on the snapshot taken under the lock, so readers never observe
// a half-loaded base.
type Store struct {
	mu      sync.RWMutex
	records []*model.Record
}

var _ interfaces.KnowledgeStore = &Store{}

func New() *Store {
	return &Store{}
}

// Load reads and flattens the knowledge base document at path. Record IDs
// are derived from the source hierarchy, so re-loading the same source
// yields identical IDs.
func (s *Store) Load(path string) error {
	// #nosec G304 - path comes from CLI configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read knowledge base",
			goerr.V("path", path), goerr.T(types.ErrTagLoad))
	}
	return s.LoadBytes(data)
}

// LoadBytes parses and installs a knowledge base document
func (s *Store) LoadBytes(data []byte) error {
	var src source
	if err := json.Unmarshal(data, &src); err != nil {
		return goerr.Wrap(err, "failed to parse knowledge base", goerr.T(types.ErrTagLoad))
	}

	if len(src.Mazhab) == 0 {
		return goerr.New("knowledge base has no mazhab section", goerr.T(types.ErrTagLoad))
	}
	for name := range src.Mazhab {
		if err := types.School(name).Validate(); err != nil {
			return goerr.Wrap(err, "knowledge base references unknown school",
				goerr.V("school", name), goerr.T(types.ErrTagLoad))
		}
	}

	records := buildRecords(&src)

	seen := make(map[model.RecordID]bool, len(records))
	for _, record := range records {
		if seen[record.ID] {
			return goerr.New("duplicate record ID in knowledge base",
				goerr.V("id", record.ID), goerr.T(types.ErrTagLoad))
		}
		seen[record.ID] = true
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return nil
}

func (s *Store) Records() []*model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Record, len(s.records))
	for i, record := range s.records {
		result[i] = record.Clone()
	}
	return result
}

// Lookup returns records matching the school, category and (when non-empty)
// topic. School may be empty for cross-school categories such as comparison.
// Topic matching normalizes underscores and case, and accepts containment in
// either direction so "posisi tangan shalat" finds "posisi_tangan_shalat".
func (s *Store) Lookup(school types.School, category types.Category, topic string) []*model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := normalizeTopic(topic)

	var result []*model.Record
	for _, record := range s.records {
		if record.School != school || record.Category != category {
			continue
		}
		if wanted != "" && !topicMatches(normalizeTopic(record.Topic), wanted) {
			continue
		}
		result = append(result, record.Clone())
	}
	return result
}

func (s *Store) References(school types.School) []*model.Record {
	return s.Lookup(school, types.CategoryReference, "")
}

func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(topic, "_", " ")))
}

func topicMatches(stored, wanted string) bool {
	if stored == "" {
		return false
	}
	return strings.Contains(stored, wanted) || strings.Contains(wanted, stored)
}
