package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	gohttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	controller "github.com/mshadianto/kitab-mazhab-ai/pkg/controller/http"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/repository/memory"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/knowledge"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/retrieval"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/waha"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
)

// ----- mock gollem session / client -----

type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"jawaban uji"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct{}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	vectors := make([][]float64, len(input))
	for i := range input {
		v := make([]float64, dimension)
		v[i%dimension] = 1.0
		vectors[i] = v
	}
	return vectors, nil
}

func newTestUseCases(t *testing.T) *usecase.UseCases {
	t.Helper()
	store := knowledge.New()
	gt.NoError(t, store.Load("../../service/knowledge/testdata/kitab_mazhab.json")).Required()
	llm := &mockLLMClient{}
	engine := retrieval.New(llm, store)
	return usecase.New(memory.New(), store, engine, llm, nil)
}

func TestServer_Health(t *testing.T) {
	server := controller.New(newTestUseCases(t))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/health", nil))

	gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

	var resp map[string]bool
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.B(t, resp["retrieval_ready"]).False()
	gt.B(t, resp["transport_ready"]).False()
}

func TestServer_Chat(t *testing.T) {
	server := controller.New(newTestUseCases(t))

	t.Run("answers a chat request", func(t *testing.T) {
		body := bytes.NewBufferString(`{"user_id":"628111","message":"apa itu wudhu?"}`)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/api/chat", body))

		gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

		var resp struct {
			Answer   string `json:"answer"`
			Degraded bool   `json:"degraded"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.Value(t, resp.Answer).Equal("jawaban uji")
		gt.B(t, resp.Degraded).False()
	})

	t.Run("missing user_id is a bad request", func(t *testing.T) {
		body := bytes.NewBufferString(`{"message":"halo"}`)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/api/chat", body))

		gt.Value(t, rec.Code).Equal(gohttp.StatusBadRequest)
	})
}

func TestServer_StatsAndReindex(t *testing.T) {
	server := controller.New(newTestUseCases(t))

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/api/reindex", nil))
	gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodGet, "/api/stats", nil))
	gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

	var stats struct {
		Records        int `json:"records"`
		IndexedRecords int `json:"indexed_records"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	gt.Value(t, stats.Records).Equal(27)
	gt.Value(t, stats.IndexedRecords).Equal(27)
}

func TestWahaWebhook(t *testing.T) {
	inbound := `{
		"event": "message",
		"payload": {
			"id": "msg-1",
			"from": "628111@c.us",
			"to": "628999@c.us",
			"body": "apa itu wudhu?",
			"fromMe": false
		}
	}`

	newServer := func(t *testing.T, opts ...controller.WahaOption) (*controller.Server, chan map[string]any) {
		t.Helper()
		sent := make(chan map[string]any, 8)

		var mu sync.Mutex
		wahaServer := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
			mu.Lock()
			defer mu.Unlock()
			if r.URL.Path == "/api/sendText" {
				var payload map[string]any
				_ = json.NewDecoder(r.Body).Decode(&payload)
				sent <- payload
			}
		}))
		t.Cleanup(wahaServer.Close)

		client, err := waha.NewClient(wahaServer.URL)
		gt.NoError(t, err).Required()

		handler := controller.NewWahaWebhookHandler(newTestUseCases(t), client, opts...)
		return controller.New(newTestUseCases(t), controller.WithWahaWebhook(handler)), sent
	}

	t.Run("acknowledges and replies asynchronously", func(t *testing.T) {
		server, sent := newServer(t)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/hooks/waha", bytes.NewBufferString(inbound)))
		gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

		select {
		case payload := <-sent:
			gt.Value(t, payload["chatId"]).Equal("628111@c.us")
			gt.Value(t, payload["text"]).Equal("jawaban uji")
			gt.Value(t, payload["reply_to"]).Equal("msg-1")
		case <-time.After(5 * time.Second):
			t.Fatal("no reply sent")
		}
	})

	t.Run("ignorable events get 200 without a reply", func(t *testing.T) {
		server, sent := newServer(t)

		rec := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"event":"message","payload":{"from":"628111@c.us","body":"x","fromMe":true}}`)
		server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/hooks/waha", body))
		gt.Value(t, rec.Code).Equal(gohttp.StatusOK)

		select {
		case <-sent:
			t.Fatal("own message must not be answered")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("shared key mismatch is unauthorized", func(t *testing.T) {
		server, _ := newServer(t, controller.WithSharedKey("expected"))

		req := httptest.NewRequest(gohttp.MethodPost, "/hooks/waha", bytes.NewBufferString(inbound))
		req.Header.Set("X-Webhook-Key", "wrong")
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(gohttp.StatusUnauthorized)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		server, _ := newServer(t)

		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(gohttp.MethodPost, "/hooks/waha", bytes.NewBufferString("{broken")))
		gt.Value(t, rec.Code).Equal(gohttp.StatusBadRequest)
	})
}
