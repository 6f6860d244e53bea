package message

import (
	"context"
	"errors"
	"testing"

	"github.com/toolgate/toolgate/internal/gateway"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
)

type fakeSender struct {
	receipt  *gateway.SendReceipt
	err      error
	lastInst string
	lastReq  gateway.SendTextRequest
}

func (f *fakeSender) SendText(_ context.Context, instanceID string, req gateway.SendTextRequest) (*gateway.SendReceipt, error) {
	f.lastInst = instanceID
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

type fakeChatLister struct {
	chats []gateway.Chat
	err   error
}

func (f *fakeChatLister) FindChats(_ context.Context, _ string) ([]gateway.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chats, nil
}

type fakeStateReader struct {
	state *gateway.InstanceState
	err   error
}

func (f *fakeStateReader) ConnectionState(_ context.Context, _ string) (*gateway.InstanceState, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.state, nil
}

func TestListToolsNilDeps(t *testing.T) {
	exec := NewExecutor(nil, nil, nil, nil)
	tools, err := exec.ListTools(context.Background(), mcpgw.ToolSessionContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 0 {
		t.Errorf("expected 0 tools when deps nil, got %d", len(tools))
	}
}

func TestListToolsAll(t *testing.T) {
	exec := NewExecutor(nil, &fakeSender{}, &fakeChatLister{}, &fakeStateReader{})
	tools, err := exec.ListTools(context.Background(), mcpgw.ToolSessionContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}
}

func TestCallToolNotFound(t *testing.T) {
	exec := NewExecutor(nil, &fakeSender{}, nil, nil)
	_, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{}, "other_tool", nil)
	if err != mcpgw.ErrToolNotFound {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestSendText(t *testing.T) {
	sender := &fakeSender{receipt: &gateway.SendReceipt{MessageID: "m1", Status: "sent"}}
	exec := NewExecutor(nil, sender, nil, nil)

	result, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{InstanceID: "main"}, toolSendText, map[string]any{
		"number": "5511999999999",
		"text":   "hello",
	})
	if err != nil {
		t.Fatal(err)
	}
	if isErr, _ := result["isError"].(bool); isErr {
		t.Fatalf("unexpected error result: %v", result)
	}
	if sender.lastInst != "main" {
		t.Errorf("instance = %q", sender.lastInst)
	}
	payload, _ := result["structuredContent"].(map[string]any)
	if payload["message_id"] != "m1" {
		t.Errorf("message_id = %v", payload["message_id"])
	}
}

func TestSendTextInstanceAliases(t *testing.T) {
	sender := &fakeSender{receipt: &gateway.SendReceipt{MessageID: "m1", Status: "sent"}}
	exec := NewExecutor(nil, sender, nil, nil)

	for name, args := range map[string]map[string]any{
		"instance":    {"number": "1", "text": "hi", "instance": "backup"},
		"instance_id": {"number": "1", "text": "hi", "instance_id": "backup"},
	} {
		if _, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{InstanceID: "main"}, toolSendText, args); err != nil {
			t.Fatal(err)
		}
		if sender.lastInst != "backup" {
			t.Errorf("%s: instance = %q, want backup", name, sender.lastInst)
		}
	}
}

func TestSendTextValidation(t *testing.T) {
	exec := NewExecutor(nil, &fakeSender{}, nil, nil)
	for name, args := range map[string]map[string]any{
		"missing number": {"text": "hi"},
		"missing text":   {"number": "1"},
	} {
		result, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{}, toolSendText, args)
		if err != nil {
			t.Fatal(err)
		}
		if isErr, _ := result["isError"].(bool); !isErr {
			t.Errorf("%s: expected error result", name)
		}
	}
}

func TestSendTextGatewayError(t *testing.T) {
	exec := NewExecutor(nil, &fakeSender{err: errors.New("instance disconnected")}, nil, nil)
	result, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{}, toolSendText, map[string]any{
		"number": "1", "text": "hi",
	})
	if err != nil {
		t.Fatal(err)
	}
	if isErr, _ := result["isError"].(bool); !isErr {
		t.Error("expected error result")
	}
}

func TestListChats(t *testing.T) {
	lister := &fakeChatLister{chats: []gateway.Chat{{ID: "c1", Name: "Ana"}, {ID: "c2", Name: "Family", IsGroup: true}}}
	exec := NewExecutor(nil, nil, lister, nil)

	result, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{InstanceID: "main"}, toolListChats, nil)
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := result["structuredContent"].(map[string]any)
	if payload["count"] != 2 {
		t.Errorf("count = %v", payload["count"])
	}
}

func TestInstanceStatus(t *testing.T) {
	reader := &fakeStateReader{state: &gateway.InstanceState{Instance: "main", State: "open"}}
	exec := NewExecutor(nil, nil, nil, reader)

	result, err := exec.CallTool(context.Background(), mcpgw.ToolSessionContext{InstanceID: "main"}, toolInstanceStatus, nil)
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := result["structuredContent"].(map[string]any)
	if payload["state"] != "open" {
		t.Errorf("state = %v", payload["state"])
	}
}
