package waha

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model/waha"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// webhookEvent is the envelope WAHA posts to the webhook endpoint
type webhookEvent struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	Payload *messagePayload `json:"payload"`
}

type messagePayload struct {
	ID        string     `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Body      string     `json:"body"`
	Text      string     `json:"text"`
	FromMe    bool       `json:"fromMe"`
	Timestamp int64      `json:"timestamp"`
	QuotedMsg *quotedMsg `json:"quotedMsg"`
}

type quotedMsg struct {
	Body string `json:"body"`
}

// ParseWebhook decodes a WAHA webhook body into a Message. It returns
// (nil, nil) for events the bot must not answer: non-message events, the
// bot's own messages, group chats and empty bodies. A malformed body is an
// error; an ignorable event is not.
func ParseWebhook(raw []byte) (*waha.Message, error) {
	var event webhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, goerr.Wrap(err, "failed to parse webhook body", goerr.T(types.ErrTagTransport))
	}

	if event.Event != "message" || event.Payload == nil {
		return nil, nil
	}

	payload := event.Payload
	if payload.FromMe {
		return nil, nil
	}
	if strings.Contains(payload.From, "@g.us") {
		return nil, nil
	}

	body := payload.Body
	if body == "" {
		body = payload.Text
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	timestamp := time.Now()
	if payload.Timestamp > 0 {
		timestamp = time.Unix(payload.Timestamp, 0)
	}

	var quoted string
	if payload.QuotedMsg != nil {
		quoted = payload.QuotedMsg.Body
	}

	return waha.NewMessage(
		payload.ID,
		stripChatSuffix(payload.From),
		stripChatSuffix(payload.To),
		body,
		false,
		quoted,
		timestamp,
	), nil
}

func stripChatSuffix(id string) string {
	id = strings.TrimSuffix(id, "@c.us")
	return strings.TrimSuffix(id, "@g.us")
}
