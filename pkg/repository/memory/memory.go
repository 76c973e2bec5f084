package memory

import (
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-process repository. Conversation state is memory-resident
// only; durability across restarts is explicitly not guaranteed.
type Memory struct {
	conversation *conversationRepository
}

var _ interfaces.Repository = &Memory{}

// Option configures the memory repository
type Option func(*Memory)

// WithMaxTurns overrides the per-user conversation window size
func WithMaxTurns(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.conversation.maxTurns = n
		}
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		conversation: newConversationRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Conversation() interfaces.ConversationRepository {
	return m.conversation
}

func (m *Memory) Close() error {
	return nil
}
