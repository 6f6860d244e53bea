// Package mcp provides the tool registry and shared plumbing for exposing
// tool executors through the Model Context Protocol SDK.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound is returned by executors for tool names they do not own.
var ErrToolNotFound = errors.New("tool not found")

// ToolDescriptor describes a callable tool (name, description, JSON input schema).
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolSessionContext carries ambient defaults for a tool call, such as the
// messaging instance the server was configured with.
type ToolSessionContext struct {
	InstanceID string
}

// ToolExecutor lists tools and dispatches tool calls.
// CallTool returns an MCP-shaped result payload; protocol-level failures
// (unknown tool) are errors, tool-level failures are error results.
type ToolExecutor interface {
	ListTools(ctx context.Context, session ToolSessionContext) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, session ToolSessionContext, toolName string, arguments map[string]any) (map[string]any, error)
}

// BuildToolSuccessResult wraps a payload map into an MCP tool result.
func BuildToolSuccessResult(payload map[string]any) map[string]any {
	return map[string]any{
		"content": []any{
			map[string]any{"type": "text", "text": compactJSON(payload)},
		},
		"structuredContent": payload,
		"isError":           false,
	}
}

// BuildToolErrorResult wraps an error message into an MCP tool error result.
func BuildToolErrorResult(message string) map[string]any {
	return map[string]any{
		"content": []any{
			map[string]any{"type": "text", "text": message},
		},
		"isError": true,
	}
}

func compactJSON(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

// StringArg returns the named argument as a trimmed string, or "".
func StringArg(arguments map[string]any, key string) string {
	value, ok := arguments[key]
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

// FirstStringArg returns the first non-empty string among the named arguments.
func FirstStringArg(arguments map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := StringArg(arguments, key); v != "" {
			return v
		}
	}
	return ""
}
