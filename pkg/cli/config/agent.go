package config

import (
	"log/slog"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/repository/memory"
	"github.com/urfave/cli/v3"
)

// Agent holds configuration for the tool-calling loop and the
// per-user conversation window.
type Agent struct {
	loopLimit int
	maxTurns  int
}

func (x *Agent) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "agent-loop-limit",
			Usage:       "Maximum tool-calling iterations per question",
			Category:    "Agent",
			Value:       agent.DefaultLoopLimit,
			Sources:     cli.EnvVars("KITAB_AGENT_LOOP_LIMIT"),
			Destination: &x.loopLimit,
		},
		&cli.IntFlag{
			Name:        "history-max-turns",
			Usage:       "Conversation turns kept per user",
			Category:    "Agent",
			Value:       memory.DefaultMaxTurns,
			Sources:     cli.EnvVars("KITAB_HISTORY_MAX_TURNS"),
			Destination: &x.maxTurns,
		},
	}
}

func (x Agent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("loop_limit", x.loopLimit),
		slog.Int("max_turns", x.maxTurns),
	)
}

// LoopLimit returns the configured tool-calling iteration bound
func (x *Agent) LoopLimit() int {
	return x.loopLimit
}

// MaxTurns returns the configured conversation window size
func (x *Agent) MaxTurns() int {
	return x.maxTurns
}
