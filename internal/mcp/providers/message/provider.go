// Package message provides the MCP message provider (send_text, list_chats,
// and instance_status tools) backed by the messaging gateway.
package message

import (
	"context"
	"log/slog"

	"github.com/toolgate/toolgate/internal/gateway"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
)

const (
	toolSendText       = "send_text"
	toolListChats      = "list_chats"
	toolInstanceStatus = "instance_status"
)

// Sender sends outbound text messages through the gateway.
type Sender interface {
	SendText(ctx context.Context, instanceID string, req gateway.SendTextRequest) (*gateway.SendReceipt, error)
}

// ChatLister lists chats known to a gateway instance.
type ChatLister interface {
	FindChats(ctx context.Context, instanceID string) ([]gateway.Chat, error)
}

// StateReader reports a gateway instance's connection state.
type StateReader interface {
	ConnectionState(ctx context.Context, instanceID string) (*gateway.InstanceState, error)
}

// Executor exposes the messaging gateway operations as MCP tools.
type Executor struct {
	sender Sender
	chats  ChatLister
	state  StateReader
	logger *slog.Logger
}

// NewExecutor creates a message tool executor. Any dependency may be nil;
// tools without their backing dependency are not listed.
func NewExecutor(log *slog.Logger, sender Sender, chats ChatLister, state StateReader) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		sender: sender,
		chats:  chats,
		state:  state,
		logger: log.With(slog.String("provider", "message_tool")),
	}
}

// ListTools returns descriptors for the available gateway tools.
func (p *Executor) ListTools(_ context.Context, _ mcpgw.ToolSessionContext) ([]mcpgw.ToolDescriptor, error) {
	var tools []mcpgw.ToolDescriptor
	instanceProperty := map[string]any{
		"type":        "string",
		"description": "Gateway instance name, defaults to the configured instance",
	}
	if p.sender != nil {
		tools = append(tools, mcpgw.ToolDescriptor{
			Name:        toolSendText,
			Description: "Send a plain text message to a number or chat through the messaging gateway.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"number": map[string]any{
						"type":        "string",
						"description": "Destination number or chat ID",
					},
					"text": map[string]any{
						"type":        "string",
						"description": "Message text",
					},
					"instance": instanceProperty,
				},
				"required": []string{"number", "text"},
			},
		})
	}
	if p.chats != nil {
		tools = append(tools, mcpgw.ToolDescriptor{
			Name:        toolListChats,
			Description: "List the chats known to a gateway instance.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"instance": instanceProperty,
				},
			},
		})
	}
	if p.state != nil {
		tools = append(tools, mcpgw.ToolDescriptor{
			Name:        toolInstanceStatus,
			Description: "Report the connection state of a gateway instance.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"instance": instanceProperty,
				},
			},
		})
	}
	return tools, nil
}

// CallTool dispatches to the gateway operation behind the tool name.
func (p *Executor) CallTool(ctx context.Context, session mcpgw.ToolSessionContext, toolName string, arguments map[string]any) (map[string]any, error) {
	switch toolName {
	case toolSendText:
		return p.callSendText(ctx, session, arguments)
	case toolListChats:
		return p.callListChats(ctx, session, arguments)
	case toolInstanceStatus:
		return p.callInstanceStatus(ctx, session, arguments)
	default:
		return nil, mcpgw.ErrToolNotFound
	}
}

func (p *Executor) callSendText(ctx context.Context, session mcpgw.ToolSessionContext, arguments map[string]any) (map[string]any, error) {
	if p.sender == nil {
		return mcpgw.BuildToolErrorResult("message service not available"), nil
	}
	number := mcpgw.StringArg(arguments, "number")
	if number == "" {
		return mcpgw.BuildToolErrorResult("number is required"), nil
	}
	text := mcpgw.StringArg(arguments, "text")
	if text == "" {
		return mcpgw.BuildToolErrorResult("text is required"), nil
	}
	instanceID := resolveInstance(arguments, session)

	receipt, err := p.sender.SendText(ctx, instanceID, gateway.SendTextRequest{Number: number, Text: text})
	if err != nil {
		p.logger.Warn("send failed", slog.Any("error", err), slog.String("instance", instanceID))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	return mcpgw.BuildToolSuccessResult(map[string]any{
		"ok":         true,
		"instance":   instanceID,
		"number":     number,
		"message_id": receipt.MessageID,
		"status":     receipt.Status,
	}), nil
}

func (p *Executor) callListChats(ctx context.Context, session mcpgw.ToolSessionContext, arguments map[string]any) (map[string]any, error) {
	if p.chats == nil {
		return mcpgw.BuildToolErrorResult("chat service not available"), nil
	}
	instanceID := resolveInstance(arguments, session)
	chats, err := p.chats.FindChats(ctx, instanceID)
	if err != nil {
		p.logger.Warn("list chats failed", slog.Any("error", err), slog.String("instance", instanceID))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	items := make([]any, 0, len(chats))
	for _, chat := range chats {
		items = append(items, map[string]any{
			"id":       chat.ID,
			"name":     chat.Name,
			"is_group": chat.IsGroup,
			"unread":   chat.UnreadCount,
		})
	}
	return mcpgw.BuildToolSuccessResult(map[string]any{
		"instance": instanceID,
		"chats":    items,
		"count":    len(items),
	}), nil
}

func (p *Executor) callInstanceStatus(ctx context.Context, session mcpgw.ToolSessionContext, arguments map[string]any) (map[string]any, error) {
	if p.state == nil {
		return mcpgw.BuildToolErrorResult("instance service not available"), nil
	}
	instanceID := resolveInstance(arguments, session)
	state, err := p.state.ConnectionState(ctx, instanceID)
	if err != nil {
		p.logger.Warn("connection state failed", slog.Any("error", err), slog.String("instance", instanceID))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	return mcpgw.BuildToolSuccessResult(map[string]any{
		"instance": state.Instance,
		"state":    state.State,
	}), nil
}

// resolveInstance accepts both argument spellings clients use before falling
// back to the session default.
func resolveInstance(arguments map[string]any, session mcpgw.ToolSessionContext) string {
	if instanceID := mcpgw.FirstStringArg(arguments, "instance", "instance_id"); instanceID != "" {
		return instanceID
	}
	return session.InstanceID
}
