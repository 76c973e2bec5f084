package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/service/waha"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/async"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/errutil"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

// handleTimeout bounds one background exchange: embedding, the tool
// loop and the outbound reply.
const handleTimeout = 120 * time.Second

// WahaWebhookHandler receives WAHA message events, acknowledges them
// immediately and answers asynchronously. WAHA retries slow webhooks, so
// the chat exchange must not block the response.
type WahaWebhookHandler struct {
	uc        *usecase.UseCases
	client    *waha.Client
	sharedKey string
}

type WahaOption func(*WahaWebhookHandler)

// WithSharedKey requires the X-Webhook-Key header to match on every
// webhook delivery.
func WithSharedKey(key string) WahaOption {
	return func(h *WahaWebhookHandler) {
		h.sharedKey = key
	}
}

func NewWahaWebhookHandler(uc *usecase.UseCases, client *waha.Client, opts ...WahaOption) *WahaWebhookHandler {
	h := &WahaWebhookHandler{
		uc:     uc,
		client: client,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP handles WAHA webhook requests
func (h *WahaWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.sharedKey != "" && r.Header.Get("X-Webhook-Key") != h.sharedKey {
		errutil.HandleHTTP(ctx, w, goerr.New("webhook key mismatch"), http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read webhook body"), http.StatusBadRequest)
		return
	}

	msg, err := waha.ParseWebhook(body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse webhook"), http.StatusBadRequest)
		return
	}
	if msg == nil {
		// Not an answerable message (status event, group, own message)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Acknowledge before processing
	w.WriteHeader(http.StatusOK)

	async.Dispatch(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		return h.handleMessage(ctx, msg.From(), msg.Body(), msg.ID())
	})
}

func (h *WahaWebhookHandler) handleMessage(ctx context.Context, from, body, messageID string) error {
	logger := logging.From(ctx)

	if err := h.client.StartTyping(ctx, from); err != nil {
		logger.Warn("failed to start typing indicator", logging.ErrAttr(err))
	}
	defer func() {
		if err := h.client.StopTyping(ctx, from); err != nil {
			logger.Warn("failed to stop typing indicator", logging.ErrAttr(err))
		}
	}()

	answer, err := h.uc.Chat(ctx, from, body)
	if err != nil {
		return goerr.Wrap(err, "failed to process message", goerr.V("from", from))
	}

	// Delivery failure does not roll back conversation state; the
	// exchange already happened.
	if err := h.client.SendText(ctx, from, answer.Text, messageID); err != nil {
		return goerr.Wrap(err, "failed to send reply", goerr.V("to", from))
	}

	logger.Info("replied",
		"to", from,
		"tools_used", answer.ToolsUsed,
		"degraded", answer.Degraded,
	)
	return nil
}
