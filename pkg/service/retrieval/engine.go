package retrieval

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/index"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxRetries  = 3
	defaultRetryWait   = 500 * time.Millisecond
	defaultBatchSize   = 16
	defaultConcurrency = 4
)

// Engine answers semantic queries by embedding the query text and ranking
// it against the indexed knowledge base. Reindex embeds the whole base and
// swaps the index snapshot; while a reindex is running or failed, queries
// keep being served from the previous snapshot.
type Engine struct {
	llm   gollem.LLMClient
	store interfaces.KnowledgeStore
	index *index.Index

	maxRetries  int
	retryWait   time.Duration
	batchSize   int
	concurrency int
}

var _ interfaces.Retriever = &Engine{}

type Option func(*Engine)

// WithMaxRetries sets how many times an embedding call is attempted
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		e.maxRetries = n
	}
}

// WithRetryWait sets the base wait between embedding retries
func WithRetryWait(d time.Duration) Option {
	return func(e *Engine) {
		e.retryWait = d
	}
}

// WithBatchSize sets how many records one embedding call covers
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithConcurrency bounds parallel embedding calls during reindex
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

func New(llm gollem.LLMClient, store interfaces.KnowledgeStore, opts ...Option) *Engine {
	engine := &Engine{
		llm:         llm,
		store:       store,
		index:       index.New(),
		maxRetries:  defaultMaxRetries,
		retryWait:   defaultRetryWait,
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Ready reports whether the index can serve queries
func (e *Engine) Ready() bool {
	return e.index.Ready()
}

// IndexSize returns the number of indexed records
func (e *Engine) IndexSize() int {
	return e.index.Size()
}

// Query embeds the query text and returns the top-k most similar records,
// honoring the query's school and category filters.
func (e *Engine) Query(ctx context.Context, q *model.Query) ([]*model.RetrievalResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if !e.Ready() {
		return nil, goerr.New("index is not built yet", goerr.T(types.ErrTagEmbedding))
	}

	vectors, err := e.embed(ctx, []string{q.Text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query", goerr.V("query", q.Text))
	}

	return e.index.Search(vectors[0], q.TopK, index.Filter{
		School:   q.School,
		Category: q.Category,
	})
}

// Reindex embeds every record in the knowledge store and atomically
// replaces the index snapshot. On failure the previous snapshot stays in
// place and keeps serving queries.
func (e *Engine) Reindex(ctx context.Context) error {
	records := e.store.Records()
	if len(records) == 0 {
		return goerr.New("knowledge store is empty", goerr.T(types.ErrTagLoad))
	}

	logger := logging.From(ctx)
	startedAt := time.Now()

	entries := make([]index.Entry, len(records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)

	for start := 0; start < len(records); start += e.batchSize {
		end := min(start+e.batchSize, len(records))
		batch := records[start:end]
		offset := start

		eg.Go(func() error {
			texts := make([]string, len(batch))
			for i, record := range batch {
				texts[i] = record.Text
			}

			vectors, err := e.embed(ctx, texts)
			if err != nil {
				return goerr.Wrap(err, "failed to embed record batch",
					goerr.V("offset", offset), goerr.V("size", len(batch)))
			}
			if len(vectors) != len(batch) {
				return goerr.New("embedding count mismatch",
					goerr.V("got", len(vectors)), goerr.V("want", len(batch)),
					goerr.T(types.ErrTagEmbedding))
			}

			for i, record := range batch {
				entries[offset+i] = index.Entry{Record: record, Vector: vectors[i]}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if err := e.index.Build(entries); err != nil {
		return err
	}

	logger.Info("index rebuilt",
		"records", len(entries),
		"duration", time.Since(startedAt).String(),
	)
	return nil
}

// embed calls the embedding model with bounded retry. Only the final
// failure is returned; intermediate failures are logged and retried with
// linear backoff.
func (e *Engine) embed(ctx context.Context, texts []string) ([][]float64, error) {
	logger := logging.From(ctx)

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			wait := e.retryWait * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, goerr.Wrap(ctx.Err(), "embedding canceled", goerr.T(types.ErrTagEmbedding))
			case <-time.After(wait):
			}
		}

		vectors, err := e.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
		if err == nil {
			return vectors, nil
		}

		lastErr = err
		logger.Warn("embedding attempt failed",
			"attempt", attempt+1,
			"max_retries", e.maxRetries,
			logging.ErrAttr(err),
		)
	}

	return nil, goerr.Wrap(lastErr, "embedding failed after retries",
		goerr.V("attempts", e.maxRetries), goerr.T(types.ErrTagEmbedding))
}
