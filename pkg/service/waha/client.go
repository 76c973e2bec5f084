package waha

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/safe"
)

// MaxMessageLength is the WhatsApp text limit the client enforces. Longer
// replies are cut at a line boundary with a truncation marker.
const MaxMessageLength = 4000

const truncationMarker = "\n\n_(pesan terpotong)_"

// Client talks to a WAHA (WhatsApp HTTP API) server
type Client struct {
	baseURL    string
	session    string
	apiKey     string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithAPIKey sets the X-Api-Key header for every request
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithSession overrides the WAHA session name (default "default")
func WithSession(session string) ClientOption {
	return func(c *Client) {
		c.session = session
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("WAHA base URL is required", goerr.T(types.ErrTagInvalidArgument))
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: "default",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Session is a WAHA session summary
type Session struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SendText sends a text message. The recipient may be a bare phone number
// or a full chat ID; replyTo optionally references the message being
// answered. Texts beyond the WhatsApp limit are truncated with a marker.
func (c *Client) SendText(ctx context.Context, to, text, replyTo string) error {
	body := map[string]any{
		"chatId":  chatID(to),
		"text":    Truncate(text),
		"session": c.session,
	}
	if replyTo != "" {
		body["reply_to"] = replyTo
	}

	return c.post(ctx, "/api/sendText", body)
}

// StartTyping shows the typing indicator in the recipient's chat
func (c *Client) StartTyping(ctx context.Context, to string) error {
	return c.post(ctx, "/api/startTyping", map[string]any{
		"chatId":  chatID(to),
		"session": c.session,
	})
}

// StopTyping hides the typing indicator
func (c *Client) StopTyping(ctx context.Context, to string) error {
	return c.post(ctx, "/api/stopTyping", map[string]any{
		"chatId":  chatID(to),
		"session": c.session,
	})
}

// Sessions lists the sessions known to the WAHA server
func (c *Client) Sessions(ctx context.Context) ([]*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/sessions", nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build sessions request", goerr.T(types.ErrTagTransport))
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list WAHA sessions", goerr.T(types.ErrTagTransport))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from WAHA",
			goerr.V("status", resp.StatusCode), goerr.T(types.ErrTagTransport))
	}

	var sessions []*Session
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sessions response", goerr.T(types.ErrTagTransport))
	}
	return sessions, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to encode request body", goerr.T(types.ErrTagTransport))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to build request",
			goerr.V("endpoint", endpoint), goerr.T(types.ErrTagTransport))
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "WAHA request failed",
			goerr.V("endpoint", endpoint), goerr.T(types.ErrTagTransport))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return goerr.New("WAHA rejected the request",
			goerr.V("endpoint", endpoint),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(detail)),
			goerr.T(types.ErrTagTransport))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}

func chatID(to string) string {
	if strings.Contains(to, "@") {
		return to
	}
	return to + "@c.us"
}

// Truncate cuts text to the WhatsApp limit, preferring a line boundary,
// and appends the truncation marker. The cut never splits a rune; replies
// quote Arabic and the persona texts carry emoji.
func Truncate(text string) string {
	if len(text) <= MaxMessageLength {
		return text
	}

	limit := MaxMessageLength - len(truncationMarker)
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	cut := text[:limit]
	if idx := strings.LastIndex(cut, "\n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + truncationMarker
}
