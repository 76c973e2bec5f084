package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the retrieval and agent layers.
// Tool-tagged errors (invalid argument, unknown tool, not found) are
// recoverable: the orchestrator feeds them back to the language model as
// observations instead of aborting the exchange.
var (
	// ErrTagLoad marks knowledge-base load failures. Fatal on initial load,
	// non-fatal on reload (the stale index keeps serving).
	ErrTagLoad = goerr.NewTag("load")

	// ErrTagEmbedding marks embedding capability failures after retries
	ErrTagEmbedding = goerr.NewTag("embedding")

	// ErrTagInvalidArgument marks tool arguments that failed schema validation
	ErrTagInvalidArgument = goerr.NewTag("invalid_argument")

	// ErrTagUnknownTool marks a model request for a tool not in the catalog
	ErrTagUnknownTool = goerr.NewTag("unknown_tool")

	// ErrTagNotFound marks lookups that matched no record
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagLoopLimit marks an exchange that hit the tool-call iteration bound
	ErrTagLoopLimit = goerr.NewTag("loop_limit")

	// ErrTagTransport marks outbound delivery failures
	ErrTagTransport = goerr.NewTag("transport")
)
