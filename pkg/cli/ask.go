package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool/core"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/cli/config"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/repository/memory"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/retrieval"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

func cmdAsk() *cli.Command {
	var geminiCfg config.Gemini
	var knowledgeCfg config.Knowledge
	var botCfg config.Bot
	var agentCfg config.Agent

	var flags []cli.Flag
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, knowledgeCfg.Flags()...)
	flags = append(flags, botCfg.Flags()...)
	flags = append(flags, agentCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Answer a single question from the command line",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("a question is required, e.g. `ask apa rukun wudhu menurut mazhab Syafi'i?`")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llm == nil {
				return goerr.New("--gemini-project is required")
			}

			store, err := knowledgeCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load knowledge base")
			}

			persona, aliases, err := botCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load bot configuration")
			}

			engine := retrieval.New(llm, store)
			if err := engine.Reindex(ctx); err != nil {
				return goerr.Wrap(err, "failed to build vector index")
			}

			tools := core.New(store, engine, core.WithTopicAliases(aliases))
			if err := core.ValidateCatalog(tools); err != nil {
				return goerr.Wrap(err, "invalid tool catalog")
			}

			uc := usecase.New(memory.New(), store, engine, llm, tools,
				usecase.WithPersona(persona),
				usecase.WithLoopLimit(agentCfg.LoopLimit()),
			)

			answer, err := uc.Chat(ctx, "cli", question)
			if err != nil {
				return goerr.Wrap(err, "failed to answer question")
			}

			title := color.New(color.FgCyan, color.Bold)
			dim := color.New(color.FgHiBlack)

			title.Println("Kitab Mazhab AI")
			color.New(color.FgWhite).Println(answer.Text)
			if len(answer.ToolsUsed) > 0 {
				dim.Printf("tools: %s\n", strings.Join(answer.ToolsUsed, ", "))
			}
			if answer.Degraded {
				logging.Default().Warn("answer is degraded, the tool loop hit its limit")
			}

			return nil
		},
	}
}
