package mcp

import (
	"context"
	"testing"
)

type staticExecutor struct {
	tools []ToolDescriptor
}

func (s *staticExecutor) ListTools(_ context.Context, _ ToolSessionContext) ([]ToolDescriptor, error) {
	return s.tools, nil
}

func (s *staticExecutor) CallTool(_ context.Context, _ ToolSessionContext, toolName string, _ map[string]any) (map[string]any, error) {
	for _, tool := range s.tools {
		if tool.Name == toolName {
			return BuildToolSuccessResult(map[string]any{"ok": true}), nil
		}
	}
	return nil, ErrToolNotFound
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewToolRegistry()
	exec := &staticExecutor{}
	if err := reg.Register(exec, ToolDescriptor{Name: " download_media "}); err != nil {
		t.Fatal(err)
	}
	_, tool, ok := reg.Lookup("download_media")
	if !ok {
		t.Fatal("expected registered tool")
	}
	if tool.Name != "download_media" {
		t.Errorf("name = %q, want trimmed", tool.Name)
	}
	if tool.InputSchema == nil {
		t.Error("expected default input schema")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewToolRegistry()
	exec := &staticExecutor{}
	if err := reg.Register(exec, ToolDescriptor{Name: "send_text"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(exec, ToolDescriptor{Name: "send_text"}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRegisterRejectsEmptyNameAndNilExecutor(t *testing.T) {
	reg := NewToolRegistry()
	if err := reg.Register(&staticExecutor{}, ToolDescriptor{Name: "  "}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := reg.Register(nil, ToolDescriptor{Name: "x"}); err == nil {
		t.Error("expected error for nil executor")
	}
}

func TestRegisterExecutor(t *testing.T) {
	reg := NewToolRegistry()
	exec := &staticExecutor{tools: []ToolDescriptor{
		{Name: "send_text"},
		{Name: "download_media"},
	}}
	if err := reg.RegisterExecutor(context.Background(), ToolSessionContext{}, exec); err != nil {
		t.Fatal(err)
	}
	tools := reg.List()
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	// List is sorted by name.
	if tools[0].Name != "download_media" || tools[1].Name != "send_text" {
		t.Errorf("unexpected order: %q, %q", tools[0].Name, tools[1].Name)
	}
}
