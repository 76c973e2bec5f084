package core

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// compareTool lines up all four schools on one topic. A school without
// data on the topic still gets a row, so the model never silently presents
// a partial comparison as complete.
type compareTool struct {
	store   interfaces.KnowledgeStore
	aliases map[string]string
}

func (t *compareTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "compare_mazhab",
		Description: "Compare all four schools side by side on one fiqh topic. Always covers hanafi, maliki, syafii and hanbali",
		Parameters: map[string]*gollem.Parameter{
			"topic": {
				Type:        gollem.TypeString,
				Description: "Fiqh topic to compare across schools",
				Required:    true,
			},
		},
	}
}

func (t *compareTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := tool.ValidateArgs(t.Spec(), args); err != nil {
		return nil, err
	}

	topic := resolveTopic(t.aliases, tool.ExtractString(args, "topic", ""))
	tool.Update(ctx, fmt.Sprintf("Membandingkan mazhab: %s", topic))

	rows := make([]map[string]any, 0, len(types.Schools()))
	for _, school := range types.Schools() {
		row := map[string]any{
			"school":   school.String(),
			"has_data": false,
		}
		if records := t.store.Lookup(school, types.CategoryRitualLaw, topic); len(records) > 0 {
			row["has_data"] = true
			row["text"] = records[0].Text
		}
		rows = append(rows, row)
	}

	result := map[string]any{
		"topic":   topic,
		"schools": rows,
	}

	// A curated comparison record, when present, gives the model a
	// ready-made summary alongside the per-school rulings.
	if records := t.store.Lookup("", types.CategoryComparison, topic); len(records) > 0 {
		result["summary"] = records[0].Text
	}

	return result, nil
}
