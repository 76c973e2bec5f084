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

// referencesTool lists the canonical reference works of a school
type referencesTool struct {
	store interfaces.KnowledgeStore
}

func (t *referencesTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "list_kitab",
		Description: "List the canonical reference books (kitab) of one school",
		Parameters: map[string]*gollem.Parameter{
			"school": {
				Type:        gollem.TypeString,
				Description: "One of: hanafi, maliki, syafii, hanbali",
				Required:    true,
			},
		},
	}
}

func (t *referencesTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	if err := tool.ValidateArgs(t.Spec(), args); err != nil {
		return nil, err
	}

	school, err := types.ParseSchool(tool.ExtractString(args, "school", ""))
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Mengambil daftar kitab mazhab %s", school.Title()))

	records := t.store.References(school)
	if len(records) == 0 {
		return nil, goerr.New("no reference works found",
			goerr.V("school", school.String()),
			goerr.T(types.ErrTagNotFound))
	}

	return map[string]any{
		"school": school.String(),
		"kitab":  records[0].Text,
	}, nil
}
