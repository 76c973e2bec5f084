package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
)

// DefaultMaxTurns bounds the per-user sliding window. The original default
// keeps the last 10 exchanges (user + assistant turns).
const DefaultMaxTurns = 20

type conversationRepository struct {
	mu       sync.RWMutex
	turns    map[string][]*model.Turn
	maxTurns int
}

func newConversationRepository() *conversationRepository {
	return &conversationRepository{
		turns:    make(map[string][]*model.Turn),
		maxTurns: DefaultMaxTurns,
	}
}

func (r *conversationRepository) Append(ctx context.Context, userID string, turn *model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := turn.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	history := append(r.turns[userID], stored)

	// Sliding window: evict oldest turns beyond the cap
	if len(history) > r.maxTurns {
		evicted := len(history) - r.maxTurns
		history = append([]*model.Turn(nil), history[evicted:]...)
	}

	r.turns[userID] = history
	return nil
}

func (r *conversationRepository) History(ctx context.Context, userID string) ([]*model.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.turns[userID]
	result := make([]*model.Turn, len(history))
	for i, turn := range history {
		result[i] = turn.Clone()
	}
	return result, nil
}

func (r *conversationRepository) Reset(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.turns, userID)
	return nil
}

func (r *conversationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.turns), nil
}
