package llm

import (
	"github.com/cloudwego/eino/schema"

	"github.com/kiosk404/bioagent/internal/bioagent/mcp"
)

// ToolInfos converts registry tool descriptors into the tool declarations a
// chat model binds for function calling.
func ToolInfos(tools []mcp.ToolDescriptor) []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(tools))
	for _, td := range tools {
		out = append(out, &schema.ToolInfo{
			Name:        td.Name,
			Desc:        td.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(paramsFromSchema(td.InputSchema)),
		})
	}
	return out
}

// paramsFromSchema lowers a JSON-schema object into Eino parameter infos.
// Unknown or malformed property entries degrade to an untyped string
// parameter rather than failing the whole conversion.
func paramsFromSchema(inputSchema map[string]interface{}) map[string]*schema.ParameterInfo {
	params := make(map[string]*schema.ParameterInfo)
	if inputSchema == nil {
		return params
	}

	required := make(map[string]struct{})
	if reqList, ok := inputSchema["required"].([]string); ok {
		for _, name := range reqList {
			required[name] = struct{}{}
		}
	} else if reqAny, ok := inputSchema["required"].([]interface{}); ok {
		for _, v := range reqAny {
			if name, ok := v.(string); ok {
				required[name] = struct{}{}
			}
		}
	}

	props, ok := inputSchema["properties"].(map[string]interface{})
	if !ok {
		return params
	}

	for name, raw := range props {
		info := &schema.ParameterInfo{Type: schema.String}
		if prop, ok := raw.(map[string]interface{}); ok {
			if t, ok := prop["type"].(string); ok {
				info.Type = toSchemaDataType(t)
			}
			if desc, ok := prop["description"].(string); ok {
				info.Desc = desc
			}
			if enum, ok := prop["enum"].([]interface{}); ok {
				for _, v := range enum {
					if s, ok := v.(string); ok {
						info.Enum = append(info.Enum, s)
					}
				}
			}
		}
		if _, ok := required[name]; ok {
			info.Required = true
		}
		params[name] = info
	}
	return params
}

// toSchemaDataType converts a JSON-schema type name to the corresponding
// Eino schema.DataType.
func toSchemaDataType(t string) schema.DataType {
	switch t {
	case "string":
		return schema.String
	case "number":
		return schema.Number
	case "integer":
		return schema.Integer
	case "boolean":
		return schema.Boolean
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	default:
		return schema.String
	}
}
