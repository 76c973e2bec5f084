package usecase

import (
	"sync"

	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/knowledge"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/retrieval"
)

// UseCases wires the chat flow: conversation state, knowledge retrieval
// and the tool-calling agent.
type UseCases struct {
	repo      interfaces.Repository
	store     *knowledge.Store
	engine    *retrieval.Engine
	llm       gollem.LLMClient
	tools     []gollem.Tool
	persona   *Persona
	loopLimit int

	// One exchange at a time per user. Concurrent webhooks for different
	// users proceed in parallel.
	userMu   sync.Mutex
	userLock map[string]*sync.Mutex
}

type Option func(*UseCases)

// WithPersona overrides the canned greeting/help/fallback texts
func WithPersona(p *Persona) Option {
	return func(uc *UseCases) {
		uc.persona = p
	}
}

// WithLoopLimit overrides the agent's tool-loop bound
func WithLoopLimit(n int) Option {
	return func(uc *UseCases) {
		uc.loopLimit = n
	}
}

func New(repo interfaces.Repository, store *knowledge.Store, engine *retrieval.Engine, llm gollem.LLMClient, tools []gollem.Tool, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:      repo,
		store:     store,
		engine:    engine,
		llm:       llm,
		tools:     tools,
		persona:   DefaultPersona(),
		loopLimit: agent.DefaultLoopLimit,
		userLock:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// lockUser serializes exchanges of one user so interleaved webhooks do not
// corrupt the turn order.
func (uc *UseCases) lockUser(userID string) func() {
	uc.userMu.Lock()
	lock, ok := uc.userLock[userID]
	if !ok {
		lock = &sync.Mutex{}
		uc.userLock[userID] = lock
	}
	uc.userMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
