package core_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/agent/tool/core"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/knowledge"
)

// ----- mock Retriever -----

type mockRetriever struct {
	queryFn func(ctx context.Context, q *model.Query) ([]*model.RetrievalResult, error)
	ready   bool
}

func (m *mockRetriever) Query(ctx context.Context, q *model.Query) ([]*model.RetrievalResult, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, q)
	}
	return []*model.RetrievalResult{}, nil
}

func (m *mockRetriever) Ready() bool {
	return m.ready
}

func loadTestStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store := knowledge.New()
	gt.NoError(t, store.Load("../../../service/knowledge/testdata/kitab_mazhab.json")).Required()
	return store
}

func findTool(tools []gollem.Tool, name string) gollem.Tool {
	for _, t := range tools {
		if t.Spec().Name == name {
			return t
		}
	}
	return nil
}

func TestNew(t *testing.T) {
	tools := core.New(loadTestStore(t), &mockRetriever{ready: true})
	gt.Array(t, tools).Length(5)
	gt.NoError(t, core.ValidateCatalog(tools))
}

func TestSearchTool(t *testing.T) {
	ctx := context.Background()
	store := loadTestStore(t)

	t.Run("passes filters and top_k through to the retriever", func(t *testing.T) {
		retriever := &mockRetriever{
			ready: true,
			queryFn: func(ctx context.Context, q *model.Query) ([]*model.RetrievalResult, error) {
				gt.Value(t, q.Text).Equal("rukun wudhu")
				gt.Value(t, q.School).Equal(types.SchoolSyafii)
				gt.Value(t, q.TopK).Equal(3)
				return []*model.RetrievalResult{
					{RecordID: "syafii/ritual-law/wudhu", Text: "hukum wudhu", Score: 0.9},
				}, nil
			},
		}
		tools := core.New(store, retriever)

		result, err := findTool(tools, "search_mazhab").Run(ctx, map[string]any{
			"query":  "rukun wudhu",
			"school": "syafii",
			"top_k":  float64(3),
		})
		gt.NoError(t, err).Required()
		items := result["results"].([]map[string]any)
		gt.Array(t, items).Length(1)
		gt.Value(t, items[0]["record_id"]).Equal("syafii/ritual-law/wudhu")
	})

	t.Run("missing query is an invalid argument", func(t *testing.T) {
		tools := core.New(store, &mockRetriever{ready: true})

		_, err := findTool(tools, "search_mazhab").Run(ctx, map[string]any{})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagInvalidArgument)).True()
	})

	t.Run("fifth school is rejected", func(t *testing.T) {
		tools := core.New(store, &mockRetriever{ready: true})

		_, err := findTool(tools, "search_mazhab").Run(ctx, map[string]any{
			"query":  "wudhu",
			"school": "zahiri",
		})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagInvalidArgument)).True()
	})
}

func TestRulingTool(t *testing.T) {
	ctx := context.Background()
	tools := core.New(loadTestStore(t), &mockRetriever{ready: true})

	t.Run("returns the ruling of one school", func(t *testing.T) {
		result, err := findTool(tools, "get_fiqih_ruling").Run(ctx, map[string]any{
			"school": "syafii",
			"topic":  "wudhu",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result["school"]).Equal("syafii")
		rulings := result["rulings"].([]map[string]any)
		gt.Array(t, rulings).Length(1).Required()
		gt.S(t, rulings[0]["text"].(string)).Contains("HUKUM WUDHU MAZHAB SYAFII")
	})

	t.Run("normalizes school spelling variants", func(t *testing.T) {
		result, err := findTool(tools, "get_fiqih_ruling").Run(ctx, map[string]any{
			"school": "Syafi'i",
			"topic":  "wudhu",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result["school"]).Equal("syafii")
	})

	t.Run("resolves topic aliases", func(t *testing.T) {
		result, err := findTool(tools, "get_fiqih_ruling").Run(ctx, map[string]any{
			"school": "hanafi",
			"topic":  "bersuci",
		})
		gt.NoError(t, err).Required()
		rulings := result["rulings"].([]map[string]any)
		gt.Array(t, rulings).Length(1).Required()
		gt.Value(t, rulings[0]["topic"]).Equal("wudhu")
	})

	t.Run("unknown topic is not found", func(t *testing.T) {
		_, err := findTool(tools, "get_fiqih_ruling").Run(ctx, map[string]any{
			"school": "syafii",
			"topic":  "warisan",
		})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagNotFound)).True()
	})
}

func TestCompareTool(t *testing.T) {
	ctx := context.Background()
	tools := core.New(loadTestStore(t), &mockRetriever{ready: true})

	t.Run("covers all four schools", func(t *testing.T) {
		result, err := findTool(tools, "compare_mazhab").Run(ctx, map[string]any{
			"topic": "posisi_tangan_shalat",
		})
		gt.NoError(t, err).Required()

		rows := result["schools"].([]map[string]any)
		gt.Array(t, rows).Length(4).Required()
		for i, school := range types.Schools() {
			gt.Value(t, rows[i]["school"]).Equal(school.String())
			gt.Value(t, rows[i]["has_data"]).Equal(true)
		}
		gt.S(t, result["summary"].(string)).Contains("PERBANDINGAN ANTAR MAZHAB")
	})

	t.Run("schools without data still get a row", func(t *testing.T) {
		result, err := findTool(tools, "compare_mazhab").Run(ctx, map[string]any{
			"topic": "warisan",
		})
		gt.NoError(t, err).Required()

		rows := result["schools"].([]map[string]any)
		gt.Array(t, rows).Length(4).Required()
		for _, row := range rows {
			gt.Value(t, row["has_data"]).Equal(false)
		}
	})
}

func TestReferencesTool(t *testing.T) {
	ctx := context.Background()
	tools := core.New(loadTestStore(t), &mockRetriever{ready: true})

	result, err := findTool(tools, "list_kitab").Run(ctx, map[string]any{
		"school": "maliki",
	})
	gt.NoError(t, err).Required()
	gt.S(t, result["kitab"].(string)).Contains("Al-Muwaththa'")
}

func TestBioTool(t *testing.T) {
	ctx := context.Background()
	tools := core.New(loadTestStore(t), &mockRetriever{ready: true})

	t.Run("returns the founder biography", func(t *testing.T) {
		result, err := findTool(tools, "get_imam_bio").Run(ctx, map[string]any{
			"school": "hanbali",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result["imam"]).Equal("Imam Ahmad bin Hanbal")
		gt.S(t, result["biography"].(string)).Contains("Musnad Ahmad")
	})

	t.Run("missing school is an invalid argument", func(t *testing.T) {
		_, err := findTool(tools, "get_imam_bio").Run(ctx, map[string]any{})
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagInvalidArgument)).True()
	})
}
