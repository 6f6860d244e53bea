package mcp

import "testing"

func TestStringArgAndFirstStringArg(t *testing.T) {
	args := map[string]any{
		"message_id": "  abc123  ",
		"count":      3,
		"empty":      "",
	}
	if got := StringArg(args, "message_id"); got != "abc123" {
		t.Errorf("StringArg = %q", got)
	}
	if got := StringArg(args, "count"); got != "" {
		t.Errorf("non-string arg should yield empty, got %q", got)
	}
	if got := FirstStringArg(args, "missing", "empty", "message_id"); got != "abc123" {
		t.Errorf("FirstStringArg = %q", got)
	}
}

func TestBuildToolResults(t *testing.T) {
	success := BuildToolSuccessResult(map[string]any{"ok": true})
	if isErr, _ := success["isError"].(bool); isErr {
		t.Error("success result flagged as error")
	}
	if success["structuredContent"] == nil {
		t.Error("success result missing structured content")
	}
	if contentText(success) == "" {
		t.Error("success result missing text content")
	}

	failure := BuildToolErrorResult("boom")
	if isErr, _ := failure["isError"].(bool); !isErr {
		t.Error("error result not flagged")
	}
	if contentText(failure) != "boom" {
		t.Errorf("error text = %q", contentText(failure))
	}
}
