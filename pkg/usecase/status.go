package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

// Status is the health snapshot of the service
type Status struct {
	RetrievalReady bool `json:"retrieval_ready"`
	AgentReady     bool `json:"agent_ready"`
}

// Stats summarizes the loaded knowledge base and conversation state
type Stats struct {
	Records             int `json:"records"`
	IndexedRecords      int `json:"indexed_records"`
	ActiveConversations int `json:"active_conversations"`
}

func (uc *UseCases) Status(ctx context.Context) *Status {
	return &Status{
		RetrievalReady: uc.engine.Ready(),
		AgentReady:     uc.llm != nil && len(uc.tools) > 0,
	}
}

func (uc *UseCases) Stats(ctx context.Context) (*Stats, error) {
	conversations, err := uc.repo.Conversation().Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count conversations")
	}
	return &Stats{
		Records:             uc.store.Size(),
		IndexedRecords:      uc.engine.IndexSize(),
		ActiveConversations: conversations,
	}, nil
}

// Reindex reloads the knowledge base from disk and rebuilds the vector
// index. Queries keep being served from the previous index until the new
// one is installed; on failure the previous one stays.
func (uc *UseCases) Reindex(ctx context.Context, path string) error {
	logger := logging.From(ctx)

	if path != "" {
		if err := uc.store.Load(path); err != nil {
			return err
		}
		logger.Info("knowledge base reloaded", "path", path, "records", uc.store.Size())
	}

	return uc.engine.Reindex(ctx)
}
