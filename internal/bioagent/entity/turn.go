package entity

import (
	"time"
)

// Role represents the role of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is a single entry in a session's conversation history.
//
// This is our domain model; conversion to/from Eino's schema.Message is
// handled by the converter in the agent layer.
type Turn struct {
	// Role is the sender role (system/user/assistant/tool).
	Role Role `json:"role"`

	// Content is the text content of the turn.
	Content string `json:"content"`

	// ToolCalls are tool invocations requested by the assistant.
	// Only present when Role == RoleAssistant and the model wants to call tools.
	ToolCalls []*ToolCall `json:"tool_calls,omitempty"`

	// ToolResults carries the outcomes of the preceding assistant turn's
	// tool calls. Only present when Role == RoleTool.
	ToolResults []*ToolCallResult `json:"tool_results,omitempty"`

	// Warning marks a turn that ended abnormally, for example when the
	// tool-round bound was reached and only a partial answer is available.
	Warning string `json:"warning,omitempty"`

	// CreatedAt is when this turn was appended.
	CreatedAt time.Time `json:"created_at"`
}

// NewSystemTurn creates a system turn.
func NewSystemTurn(content string) *Turn {
	return &Turn{
		Role:      RoleSystem,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) *Turn {
	return &Turn{
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string, toolCalls []*ToolCall) *Turn {
	return &Turn{
		Role:      RoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
		CreatedAt: time.Now(),
	}
}

// NewToolTurn creates a turn carrying the results of one tool round.
func NewToolTurn(results []*ToolCallResult) *Turn {
	return &Turn{
		Role:        RoleTool,
		ToolResults: results,
		CreatedAt:   time.Now(),
	}
}
