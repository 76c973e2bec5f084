package waha

import "time"

// Message is an inbound WhatsApp message delivered by a WAHA webhook,
// normalized for the chat use case.
type Message struct {
	id        string
	from      string
	to        string
	body      string
	isGroup   bool
	quoted    string
	timestamp time.Time
}

// NewMessage creates a Message from parsed webhook data
func NewMessage(id, from, to, body string, isGroup bool, quoted string, timestamp time.Time) *Message {
	return &Message{
		id:        id,
		from:      from,
		to:        to,
		body:      body,
		isGroup:   isGroup,
		quoted:    quoted,
		timestamp: timestamp,
	}
}

// ID returns the WAHA message ID, used as reply-to reference
func (m *Message) ID() string { return m.id }

// From returns the sender phone number without the chat suffix
func (m *Message) From() string { return m.from }

// To returns the recipient phone number without the chat suffix
func (m *Message) To() string { return m.to }

// Body returns the trimmed message text
func (m *Message) Body() string { return m.body }

// IsGroup reports whether the message came from a group chat
func (m *Message) IsGroup() bool { return m.isGroup }

// Quoted returns the quoted message body, if any
func (m *Message) Quoted() string { return m.quoted }

// Timestamp returns the message timestamp
func (m *Message) Timestamp() time.Time { return m.timestamp }
