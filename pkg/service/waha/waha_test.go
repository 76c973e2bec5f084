package waha_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/waha"
)

func TestClient_SendText(t *testing.T) {
	ctx := context.Background()

	t.Run("posts chat ID, session and reply reference", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/api/sendText")
			gt.Value(t, r.Header.Get("X-Api-Key")).Equal("secret-key")
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client, err := waha.NewClient(server.URL,
			waha.WithAPIKey("secret-key"),
			waha.WithSession("fiqih"))
		gt.NoError(t, err).Required()

		gt.NoError(t, client.SendText(ctx, "628111", "jawaban", "msg-1"))
		gt.Value(t, got["chatId"]).Equal("628111@c.us")
		gt.Value(t, got["session"]).Equal("fiqih")
		gt.Value(t, got["reply_to"]).Equal("msg-1")
	})

	t.Run("full chat IDs pass through unchanged", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}))
		defer server.Close()

		client, err := waha.NewClient(server.URL)
		gt.NoError(t, err).Required()

		gt.NoError(t, client.SendText(ctx, "628111@c.us", "jawaban", ""))
		gt.Value(t, got["chatId"]).Equal("628111@c.us")
		_, hasReplyTo := got["reply_to"]
		gt.B(t, hasReplyTo).False()
	})

	t.Run("server rejection is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "session not started", http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client, err := waha.NewClient(server.URL)
		gt.NoError(t, err).Required()

		err = client.SendText(ctx, "628111", "jawaban", "")
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagTransport)).True()
	})

	t.Run("empty base URL is rejected", func(t *testing.T) {
		_, err := waha.NewClient("")
		gt.Error(t, err)
	})
}

func TestClient_Typing(t *testing.T) {
	ctx := context.Background()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	}))
	defer server.Close()

	client, err := waha.NewClient(server.URL)
	gt.NoError(t, err).Required()

	gt.NoError(t, client.StartTyping(ctx, "628111"))
	gt.NoError(t, client.StopTyping(ctx, "628111"))
	gt.Array(t, paths).Length(2).Required()
	gt.Value(t, paths[0]).Equal("/api/startTyping")
	gt.Value(t, paths[1]).Equal("/api/stopTyping")
}

func TestClient_Sessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/api/sessions")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"default","status":"WORKING"}]`))
	}))
	defer server.Close()

	client, err := waha.NewClient(server.URL)
	gt.NoError(t, err).Required()

	sessions, err := client.Sessions(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, sessions).Length(1).Required()
	gt.Value(t, sessions[0].Name).Equal("default")
	gt.Value(t, sessions[0].Status).Equal("WORKING")
}

func TestParseWebhook(t *testing.T) {
	t.Run("parses a direct text message", func(t *testing.T) {
		raw := []byte(`{
			"event": "message",
			"session": "default",
			"payload": {
				"id": "false_628111@c.us_ABC",
				"from": "628111@c.us",
				"to": "628999@c.us",
				"body": " apa rukun wudhu? ",
				"fromMe": false,
				"timestamp": 1756100000
			}
		}`)

		msg, err := waha.ParseWebhook(raw)
		gt.NoError(t, err).Required()
		gt.Value(t, msg).NotNil().Required()
		gt.Value(t, msg.From()).Equal("628111")
		gt.Value(t, msg.To()).Equal("628999")
		gt.Value(t, msg.Body()).Equal("apa rukun wudhu?")
		gt.Value(t, msg.ID()).Equal("false_628111@c.us_ABC")
	})

	t.Run("ignores non-message events", func(t *testing.T) {
		msg, err := waha.ParseWebhook([]byte(`{"event":"session.status","payload":{"body":"x"}}`))
		gt.NoError(t, err)
		gt.Value(t, msg).Nil()
	})

	t.Run("ignores the bot's own messages", func(t *testing.T) {
		msg, err := waha.ParseWebhook([]byte(`{"event":"message","payload":{"from":"628999@c.us","body":"halo","fromMe":true}}`))
		gt.NoError(t, err)
		gt.Value(t, msg).Nil()
	})

	t.Run("ignores group chats", func(t *testing.T) {
		msg, err := waha.ParseWebhook([]byte(`{"event":"message","payload":{"from":"12036304@g.us","body":"halo"}}`))
		gt.NoError(t, err)
		gt.Value(t, msg).Nil()
	})

	t.Run("ignores empty bodies", func(t *testing.T) {
		msg, err := waha.ParseWebhook([]byte(`{"event":"message","payload":{"from":"628111@c.us","body":"   "}}`))
		gt.NoError(t, err)
		gt.Value(t, msg).Nil()
	})

	t.Run("falls back to the text field", func(t *testing.T) {
		msg, err := waha.ParseWebhook([]byte(`{"event":"message","payload":{"from":"628111@c.us","text":"halo"}}`))
		gt.NoError(t, err).Required()
		gt.Value(t, msg).NotNil().Required()
		gt.Value(t, msg.Body()).Equal("halo")
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		_, err := waha.ParseWebhook([]byte(`{broken`))
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, types.ErrTagTransport)).True()
	})
}

func TestTruncate(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		gt.Value(t, waha.Truncate("halo")).Equal("halo")
	})

	t.Run("long text is cut with a marker", func(t *testing.T) {
		long := strings.Repeat("kalimat panjang tentang fiqih\n", 300)
		got := waha.Truncate(long)

		gt.Number(t, len(got)).LessOrEqual(waha.MaxMessageLength)
		gt.S(t, got).Contains("(pesan terpotong)")
	})

	t.Run("cut never splits a multibyte rune", func(t *testing.T) {
		arabic := strings.Repeat("ا", 2500)
		got := waha.Truncate(arabic)

		gt.Number(t, len(got)).LessOrEqual(waha.MaxMessageLength)
		gt.B(t, utf8.ValidString(got)).True()
		gt.S(t, got).Contains("(pesan terpotong)")
	})
}
