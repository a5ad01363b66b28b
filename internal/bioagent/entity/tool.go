package entity

// ToolCall is a tool invocation requested by the assistant, exactly as the
// model produced it (arguments are the raw JSON string).
type ToolCall struct {
	// ID is the model-assigned correlation id for this call.
	ID string `json:"id"`

	// Name is the tool to invoke.
	Name string `json:"name"`

	// Arguments is the raw JSON-encoded argument object.
	Arguments string `json:"arguments"`
}

// ToolCallRequest is a resolved, ready-to-dispatch tool invocation.
type ToolCallRequest struct {
	// CallID correlates the result back to the assistant's tool call.
	CallID string `json:"call_id"`

	// ToolName names the tool to invoke.
	ToolName string `json:"tool_name"`

	// Arguments are the decoded call arguments.
	Arguments map[string]interface{} `json:"arguments"`
}

// CallStatus is the outcome class of one tool invocation.
type CallStatus string

const (
	CallSuccess CallStatus = "success"
	CallError   CallStatus = "error"
	CallTimeout CallStatus = "timeout"
)

// ToolCallResult is the normalized outcome of one tool invocation.
type ToolCallResult struct {
	CallID       string     `json:"call_id"`
	ToolName     string     `json:"tool_name"`
	Status       CallStatus `json:"status"`
	Output       string     `json:"output,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	DurationMs   int64      `json:"duration_ms"`
}

// Failed reports whether the call did not complete successfully.
func (r *ToolCallResult) Failed() bool {
	return r.Status != CallSuccess
}

// ModelContent returns the text handed back to the model for this result.
// Failures are rendered as readable error strings so the model can adapt.
func (r *ToolCallResult) ModelContent() string {
	if r.Status == CallSuccess {
		return r.Output
	}
	return "tool error: " + r.ErrorMessage
}
