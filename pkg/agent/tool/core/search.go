package core

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// searchTool answers free-form questions with semantic retrieval over the
// knowledge base, optionally narrowed to one school or category.
type searchTool struct {
	retriever interfaces.Retriever
}

func (t *searchTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "search_mazhab",
		Description: "Search the madhhab knowledge base by meaning. Use for open questions about fiqh, methodology, history or etiquette of the four schools",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text, in the user's language",
				Required:    true,
			},
			"school": {
				Type:        gollem.TypeString,
				Description: "Restrict to one school: hanafi, maliki, syafii or hanbali",
				Required:    false,
			},
			"category": {
				Type:        gollem.TypeString,
				Description: "Restrict to one category: biography, methodology, reference, ritual-law, comparison, spread or etiquette",
				Required:    false,
			},
			"top_k": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Maximum number of results (default: %d)", model.DefaultTopK),
				Required:    false,
			},
		},
	}
}

func (t *searchTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := tool.ValidateArgs(t.Spec(), args); err != nil {
		return nil, err
	}

	query := &model.Query{
		Text: tool.ExtractString(args, "query", ""),
		TopK: tool.ExtractInt(args, "top_k", model.DefaultTopK),
	}

	if name := tool.ExtractString(args, "school", ""); name != "" {
		school, err := types.ParseSchool(name)
		if err != nil {
			return nil, err
		}
		query.School = school
	}
	if name := tool.ExtractString(args, "category", ""); name != "" {
		category := types.Category(name)
		if err := category.Validate(); err != nil {
			return nil, err
		}
		query.Category = category
	}

	tool.Update(ctx, fmt.Sprintf("Mencari: %s", query.Text))

	results, err := t.retriever.Query(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search knowledge base",
			goerr.V("query", query.Text))
	}

	items := make([]map[string]any, len(results))
	for i, result := range results {
		items[i] = map[string]any{
			"record_id": result.RecordID.String(),
			"school":    result.School.String(),
			"category":  result.Category.String(),
			"topic":     result.Topic,
			"score":     result.Score,
			"text":      result.Text,
		}
	}
	return map[string]any{"results": items}, nil
}
