package model

import "time"

// Role is the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall records one tool invocation made while answering an exchange.
// It is attached to the tool-role turn so that later reasoning within the
// same conversation can see what was already gathered.
type ToolCall struct {
	Name   string
	Args   map[string]any
	Result string
	Failed bool
}

// Turn is one message unit in a conversation's ordered history
type Turn struct {
	Role      Role
	Content   string
	ToolCall  *ToolCall // set only for tool-role turns
	CreatedAt time.Time
}

// Clone returns a deep copy of the turn
func (t *Turn) Clone() *Turn {
	copied := &Turn{
		Role:      t.Role,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
	if t.ToolCall != nil {
		tc := &ToolCall{
			Name:   t.ToolCall.Name,
			Result: t.ToolCall.Result,
			Failed: t.ToolCall.Failed,
		}
		if t.ToolCall.Args != nil {
			tc.Args = make(map[string]any, len(t.ToolCall.Args))
			for k, v := range t.ToolCall.Args {
				tc.Args[k] = v
			}
		}
		copied.ToolCall = tc
	}
	return copied
}
