package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(nil, Options{BaseURL: srv.URL, APIKey: "tok"})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestListAgents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("missing bearer token")
		}
		_ = json.NewEncoder(w).Encode([]Agent{{ID: "a1", Name: "researcher"}})
	})
	agents, err := client.ListAgents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(agents) != 1 || agents[0].ID != "a1" {
		t.Errorf("unexpected agents: %+v", agents)
	}
}

func TestRunAgent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/agents/a1/runs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id header")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["input"] != "summarize this" {
			t.Errorf("input = %v", body["input"])
		}
		_ = json.NewEncoder(w).Encode(Run{ID: "r1", AgentID: "a1", Status: "queued"})
	})
	run, err := client.RunAgent(context.Background(), RunRequest{AgentID: "a1", Input: "summarize this"})
	if err != nil {
		t.Fatal(err)
	}
	if run.ID != "r1" || run.Status != "queued" {
		t.Errorf("unexpected run: %+v", run)
	}
}

func TestRunAgentValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	if _, err := client.RunAgent(context.Background(), RunRequest{Input: "x"}); err == nil {
		t.Error("expected error for missing agent id")
	}
	if _, err := client.RunAgent(context.Background(), RunRequest{AgentID: "a1"}); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestGetRunError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "run not found", http.StatusNotFound)
	})
	if _, err := client.GetRun(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestGetRun(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/runs/r1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Run{ID: "r1", Status: "completed", Output: "done"})
	})
	run, err := client.GetRun(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != "completed" || run.Output != "done" {
		t.Errorf("unexpected run: %+v", run)
	}
}
