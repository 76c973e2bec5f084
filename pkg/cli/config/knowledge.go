package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/knowledge"
	"github.com/urfave/cli/v3"
)

// Knowledge holds configuration for the knowledge base file
type Knowledge struct {
	path string
}

func (k *Knowledge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "knowledge-base",
			Usage:       "Path to the knowledge base JSON file",
			Category:    "Knowledge",
			Value:       "data/kitab_mazhab.json",
			Sources:     cli.EnvVars("KITAB_KNOWLEDGE_BASE"),
			Destination: &k.path,
		},
	}
}

// Path returns the configured knowledge base file path
func (k *Knowledge) Path() string {
	return k.path
}

func (k Knowledge) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", k.path))
}

// Configure loads the knowledge base from the configured path
func (k *Knowledge) Configure() (*knowledge.Store, error) {
	store := knowledge.New()
	if err := store.Load(k.path); err != nil {
		return nil, goerr.Wrap(err, "failed to load knowledge base", goerr.V("path", k.path))
	}
	return store, nil
}
