package core

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/interfaces"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// bioTool returns the founder imam's biography of a school
type bioTool struct {
	store interfaces.KnowledgeStore
}

func (t *bioTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_imam_bio",
		Description: "Get the biography of the founding imam of one school",
		Parameters: map[string]*gollem.Parameter{
			"school": {
				Type:        gollem.TypeString,
				Description: "One of: hanafi, maliki, syafii, hanbali",
				Required:    true,
			},
		},
	}
}

func (t *bioTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := tool.ValidateArgs(t.Spec(), args); err != nil {
		return nil, err
	}

	school, err := types.ParseSchool(tool.ExtractString(args, "school", ""))
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Mengambil biografi imam mazhab %s", school.Title()))

	records := t.store.Lookup(school, types.CategoryBiography, "")
	if len(records) == 0 {
		return nil, goerr.New("no biography found",
			goerr.V("school", school.String()),
			goerr.T(types.ErrTagNotFound))
	}

	result := map[string]any{
		"school":    school.String(),
		"biography": records[0].Text,
	}
	if imam, ok := records[0].Metadata["imam"]; ok {
		result["imam"] = imam
	}
	return result, nil
}
