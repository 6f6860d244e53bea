package openapi

import (
	"context"
	"log/slog"

	mcpgw "github.com/toolgate/toolgate/internal/mcp"
)

// Executor exposes every operation of a loaded document as an MCP tool.
type Executor struct {
	doc     *Document
	invoker *Invoker
	logger  *slog.Logger
}

// NewExecutor creates a tool executor over the document and invoker.
func NewExecutor(log *slog.Logger, doc *Document, invoker *Invoker) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		doc:     doc,
		invoker: invoker,
		logger:  log.With(slog.String("provider", "openapi_tool")),
	}
}

// ListTools returns one descriptor per operation in the document.
func (p *Executor) ListTools(_ context.Context, _ mcpgw.ToolSessionContext) ([]mcpgw.ToolDescriptor, error) {
	if p.doc == nil || p.invoker == nil {
		return []mcpgw.ToolDescriptor{}, nil
	}
	ops := p.doc.Operations()
	tools := make([]mcpgw.ToolDescriptor, 0, len(ops))
	for _, op := range ops {
		description := op.Summary
		if description == "" {
			description = op.Description
		}
		if description == "" {
			description = op.Method + " " + op.Path
		}
		tools = append(tools, mcpgw.ToolDescriptor{
			Name:        op.ID,
			Description: description,
			InputSchema: InputSchema(op),
		})
	}
	return tools, nil
}

// CallTool proxies the named operation as an HTTP request.
func (p *Executor) CallTool(ctx context.Context, _ mcpgw.ToolSessionContext, toolName string, arguments map[string]any) (map[string]any, error) {
	if p.doc == nil || p.invoker == nil {
		return mcpgw.BuildToolErrorResult("openapi bridge is not available"), nil
	}
	op, ok := p.doc.Operation(toolName)
	if !ok {
		return nil, mcpgw.ErrToolNotFound
	}
	payload, err := p.invoker.Invoke(ctx, op, arguments)
	if err != nil {
		p.logger.Warn("operation call failed", slog.String("operation", op.ID), slog.Any("error", err))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	return mcpgw.BuildToolSuccessResult(payload), nil
}
