package interfaces

import (
	"context"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
)

// ConversationRepository manages per-user bounded conversation history.
// Implementations must be safe for concurrent use; callers are responsible
// for serializing the turns of a single user (see usecase layer).
type ConversationRepository interface {
	// Append adds a turn to the user's history, evicting the oldest turns
	// beyond the configured window
	Append(ctx context.Context, userID string, turn *model.Turn) error

	// History returns the user's turns, oldest first. An unknown user
	// yields an empty slice, not an error.
	History(ctx context.Context, userID string) ([]*model.Turn, error)

	// Reset clears the user's history. Resetting an unknown user is a no-op.
	Reset(ctx context.Context, userID string) error

	// Count returns the number of users with at least one stored turn
	Count(ctx context.Context) (int, error)
}

// Repository aggregates all persistence concerns
type Repository interface {
	Conversation() ConversationRepository
	Close() error
}
