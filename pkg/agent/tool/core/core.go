package core

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
)

// Options configure the tool catalog
type Options struct {
	topicAliases map[string]string
}

type Option func(*Options)

// WithTopicAliases extends the built-in topic alias table. User-facing
// topic names map to the canonical topic keys of the knowledge base.
func WithTopicAliases(aliases map[string]string) Option {
	return func(o *Options) {
		for from, to := range aliases {
			o.topicAliases[from] = to
		}
	}
}

// defaultTopicAliases maps common user phrasings to knowledge base topics
func defaultTopicAliases() map[string]string {
	return map[string]string{
		"thaharah":   "wudhu",
		"bersuci":    "wudhu",
		"ablution":   "wudhu",
		"sedekap":    "posisi_tangan_shalat",
		"bersedekap": "posisi_tangan_shalat",
		"qunut":      "qunut_subuh",
	}
}

// New builds the agent's tool catalog over the knowledge base. The catalog
// is assembled once at startup; the same tools serve every exchange.
func New(store interfaces.KnowledgeStore, retriever interfaces.Retriever, opts ...Option) []gollem.Tool {
	options := &Options{
		topicAliases: defaultTopicAliases(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return []gollem.Tool{
		&searchTool{retriever: retriever},
		&rulingTool{store: store, aliases: options.topicAliases},
		&compareTool{store: store, aliases: options.topicAliases},
		&referencesTool{store: store},
		&bioTool{store: store},
	}
}

// ValidateCatalog rejects duplicate tool names. Called once at startup.
func ValidateCatalog(tools []gollem.Tool) error {
	seen := make(map[string]bool, len(tools))
	for _, t := range tools {
		name := t.Spec().Name
		if seen[name] {
			return goerr.New("duplicate tool name in catalog", goerr.V("name", name))
		}
		seen[name] = true
	}
	return nil
}
