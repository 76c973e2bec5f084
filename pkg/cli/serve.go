package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool/core"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/cli/config"
	httpctrl "github.com/mshadianto/kitab-mazhab-ai/pkg/controller/http"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/repository/memory"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/retrieval"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var geminiCfg config.Gemini
	var knowledgeCfg config.Knowledge
	var botCfg config.Bot
	var wahaCfg config.Waha
	var agentCfg config.Agent

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KITAB_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, knowledgeCfg.Flags()...)
	flags = append(flags, botCfg.Flags()...)
	flags = append(flags, wahaCfg.Flags()...)
	flags = append(flags, agentCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llm == nil {
				return goerr.New("--gemini-project is required: the assistant cannot embed or answer without an LLM")
			}

			store, err := knowledgeCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load knowledge base")
			}
			logging.Default().Info("knowledge base loaded", "config", knowledgeCfg, "records", store.Size())

			persona, aliases, err := botCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load bot configuration")
			}

			repo := memory.New(memory.WithMaxTurns(agentCfg.MaxTurns()))
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			engine := retrieval.New(llm, store)
			if err := engine.Reindex(ctx); err != nil {
				return goerr.Wrap(err, "failed to build vector index")
			}
			logging.Default().Info("vector index ready", "records", engine.IndexSize())

			tools := core.New(store, engine, core.WithTopicAliases(aliases))
			if err := core.ValidateCatalog(tools); err != nil {
				return goerr.Wrap(err, "invalid tool catalog")
			}

			uc := usecase.New(repo, store, engine, llm, tools,
				usecase.WithPersona(persona),
				usecase.WithLoopLimit(agentCfg.LoopLimit()),
			)

			httpOpts := []httpctrl.Options{
				httpctrl.WithKnowledgePath(knowledgeCfg.Path()),
			}

			wahaClient, err := wahaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure WAHA client")
			}
			if wahaClient != nil {
				// Reachability check only; a stopped session is reported
				// but does not block startup.
				if sessions, err := wahaClient.Sessions(ctx); err != nil {
					logging.Default().Warn("WAHA gateway not reachable", logging.ErrAttr(err))
				} else {
					logging.Default().Info("WAHA gateway connected", "sessions", len(sessions))
				}

				var handlerOpts []httpctrl.WahaOption
				if wahaCfg.WebhookKey() != "" {
					handlerOpts = append(handlerOpts, httpctrl.WithSharedKey(wahaCfg.WebhookKey()))
				}
				handler := httpctrl.NewWahaWebhookHandler(uc, wahaClient, handlerOpts...)
				httpOpts = append(httpOpts, httpctrl.WithWahaWebhook(handler))
				logging.Default().Info("WAHA webhook handler enabled", "waha", wahaCfg)
			} else {
				logging.Default().Info("WAHA not configured, WhatsApp transport disabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
