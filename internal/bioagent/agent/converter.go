package agent

import (
	"github.com/cloudwego/eino/schema"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
)

// toSchemaMessages converts the session history into Eino schema messages.
// A tool turn expands into one tool message per result so the correlation
// ids line up with the preceding assistant turn's tool calls.
func toSchemaMessages(turns []*entity.Turn) []*schema.Message {
	result := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		if turn.Role == entity.RoleTool {
			for _, res := range turn.ToolResults {
				result = append(result, &schema.Message{
					Role:       schema.Tool,
					Content:    res.ModelContent(),
					Name:       res.ToolName,
					ToolCallID: res.CallID,
				})
			}
			continue
		}
		result = append(result, toSchemaMessage(turn))
	}
	return result
}

func toSchemaMessage(turn *entity.Turn) *schema.Message {
	sm := &schema.Message{
		Role:    toSchemaRole(turn.Role),
		Content: turn.Content,
	}

	if len(turn.ToolCalls) > 0 {
		sm.ToolCalls = make([]schema.ToolCall, 0, len(turn.ToolCalls))
		for _, tc := range turn.ToolCalls {
			sm.ToolCalls = append(sm.ToolCalls, schema.ToolCall{
				ID: tc.ID,
				Function: schema.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
	}
	return sm
}

// fromSchemaToolCalls extracts the tool calls requested by a model response.
func fromSchemaToolCalls(calls []schema.ToolCall) []*entity.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]*entity.ToolCall, 0, len(calls))
	for _, tc := range calls {
		out = append(out, &entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}

func toSchemaRole(role entity.Role) schema.RoleType {
	switch role {
	case entity.RoleUser:
		return schema.User
	case entity.RoleAssistant:
		return schema.Assistant
	case entity.RoleSystem:
		return schema.System
	case entity.RoleTool:
		return schema.Tool
	default:
		return schema.User
	}
}
