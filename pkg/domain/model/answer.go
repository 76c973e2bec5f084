package model

// Answer is the final outcome of one agent exchange
type Answer struct {
	Text string

	// ToolsUsed lists tool names in invocation order, duplicates kept
	ToolsUsed []string

	// Degraded marks an answer produced despite an incomplete tool loop
	// (iteration bound hit, or a sub-operation failed after retries)
	Degraded bool
}
