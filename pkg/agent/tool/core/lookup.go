package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// rulingTool answers "what does school X say about topic Y" directly from
// the knowledge base, without going through the vector index.
type rulingTool struct {
	store   interfaces.KnowledgeStore
	aliases map[string]string
}

func (t *rulingTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_fiqih_ruling",
		Description: "Get the fiqh ruling of one school on a specific topic, e.g. wudhu or posisi tangan shalat",
		Parameters: map[string]*gollem.Parameter{
			"school": {
				Type:        gollem.TypeString,
				Description: "One of: hanafi, maliki, syafii, hanbali",
				Required:    true,
			},
			"topic": {
				Type:        gollem.TypeString,
				Description: "Fiqh topic to look up",
				Required:    true,
			},
		},
	}
}

func (t *rulingTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := tool.ValidateArgs(t.Spec(), args); err != nil {
		return nil, err
	}

	school, err := types.ParseSchool(tool.ExtractString(args, "school", ""))
	if err != nil {
		return nil, err
	}
	topic := resolveTopic(t.aliases, tool.ExtractString(args, "topic", ""))

	tool.Update(ctx, fmt.Sprintf("Mengambil hukum %s mazhab %s", topic, school.Title()))

	records := t.store.Lookup(school, types.CategoryRitualLaw, topic)
	if len(records) == 0 {
		return nil, goerr.New("no ruling found for topic",
			goerr.V("school", school.String()),
			goerr.V("topic", topic),
			goerr.T(types.ErrTagNotFound))
	}

	items := make([]map[string]any, len(records))
	for i, record := range records {
		items[i] = map[string]any{
			"record_id": record.ID.String(),
			"topic":     record.Topic,
			"text":      record.Text,
		}
	}
	return map[string]any{
		"school":  school.String(),
		"rulings": items,
	}, nil
}

// resolveTopic applies the alias table after normalizing the user's
// phrasing. Unknown topics pass through unchanged; the store does its own
// fuzzy matching.
func resolveTopic(aliases map[string]string, topic string) string {
	normalized := strings.ToLower(strings.TrimSpace(topic))
	if canonical, ok := aliases[normalized]; ok {
		return canonical
	}
	if canonical, ok := aliases[strings.ReplaceAll(normalized, " ", "_")]; ok {
		return canonical
	}
	return normalized
}
