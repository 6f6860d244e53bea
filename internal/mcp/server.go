package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds a go-sdk MCP server with the given implementation name and version.
func NewServer(name, version string) *gomcp.Server {
	return gomcp.NewServer(
		&gomcp.Implementation{Name: name, Version: version},
		nil,
	)
}

// AttachRegistry installs every registered tool on the SDK server. Each call
// is dispatched back through the owning executor with a per-call id in the logger.
func AttachRegistry(log *slog.Logger, server *gomcp.Server, registry *ToolRegistry, session ToolSessionContext) error {
	if log == nil {
		log = slog.Default()
	}
	if server == nil || registry == nil {
		return fmt.Errorf("server and registry are required")
	}
	for _, tool := range registry.List() {
		executor, descriptor, ok := registry.Lookup(tool.Name)
		if !ok {
			continue
		}
		schema, err := toSchema(descriptor.InputSchema)
		if err != nil {
			return fmt.Errorf("input schema for %s: %w", descriptor.Name, err)
		}
		name := descriptor.Name
		server.AddTool(
			&gomcp.Tool{
				Name:        name,
				Description: descriptor.Description,
				InputSchema: schema,
			},
			func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
				callID := uuid.NewString()
				callLog := log.With(slog.String("tool", name), slog.String("call_id", callID))

				arguments, err := decodeArguments(req.Params.Arguments)
				if err != nil {
					callLog.Warn("bad tool arguments", slog.Any("error", err))
					return toCallToolResult(BuildToolErrorResult(err.Error())), nil
				}
				payload, err := executor.CallTool(ctx, session, name, arguments)
				if err != nil {
					callLog.Warn("tool call failed", slog.Any("error", err))
					return nil, err
				}
				callLog.Debug("tool call completed")
				return toCallToolResult(payload), nil
			},
		)
	}
	return nil
}

// toSchema converts a map-shaped JSON schema into the SDK schema type.
func toSchema(raw map[string]any) (*jsonschema.Schema, error) {
	if raw == nil {
		raw = map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// decodeArguments normalizes the SDK's raw tool arguments into a map.
func decodeArguments(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case json.RawMessage:
		return unmarshalArguments([]byte(v))
	case []byte:
		return unmarshalArguments(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		return unmarshalArguments(data)
	}
}

func unmarshalArguments(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var arguments map[string]any
	if err := json.Unmarshal(data, &arguments); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

// toCallToolResult converts an executor payload into the SDK result shape.
func toCallToolResult(payload map[string]any) *gomcp.CallToolResult {
	result := &gomcp.CallToolResult{}
	if isErr, ok := payload["isError"].(bool); ok {
		result.IsError = isErr
	}
	if structured, ok := payload["structuredContent"]; ok {
		result.StructuredContent = structured
	}
	if text := contentText(payload); text != "" {
		result.Content = []gomcp.Content{&gomcp.TextContent{Text: text}}
	}
	return result
}

// contentText returns the first content item's text from a result payload.
func contentText(payload map[string]any) string {
	rawContent, ok := payload["content"].([]any)
	if !ok || len(rawContent) == 0 {
		return ""
	}
	first, ok := rawContent[0].(map[string]any)
	if !ok {
		return ""
	}
	text, _ := first["text"].(string)
	return text
}
