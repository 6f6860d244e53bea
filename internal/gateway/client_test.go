package gateway

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
	client, err := NewClient(nil, Options{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(nil, Options{}); err != ErrMissingBaseURL {
		t.Errorf("expected ErrMissingBaseURL, got %v", err)
	}
}

func TestGetBase64Media(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/chat/getBase64FromMediaMessage/main" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("missing apikey header")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		message, _ := body["message"].(map[string]any)
		key, _ := message["key"].(map[string]any)
		if key["id"] != "abc123" {
			t.Errorf("message key id = %v", key["id"])
		}
		_ = json.NewEncoder(w).Encode(MediaPayload{Base64: "aGVsbG8=", Mimetype: "image/png"})
	})

	payload, err := client.GetBase64Media(context.Background(), "main", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if payload == nil {
		t.Fatal("expected payload")
	}
	if payload.Base64 != "aGVsbG8=" || payload.Mimetype != "image/png" {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestGetBase64MediaNotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	payload, err := client.GetBase64Media(context.Background(), "main", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if payload != nil {
		t.Errorf("expected nil payload on 404, got %+v", payload)
	}
}

func TestGetBase64MediaEmptyBodyIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	payload, err := client.GetBase64Media(context.Background(), "main", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if payload != nil {
		t.Errorf("expected nil payload on empty body, got %+v", payload)
	}
}

func TestGetBase64MediaServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "instance disconnected", http.StatusInternalServerError)
	})
	_, err := client.GetBase64Media(context.Background(), "main", "abc123")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSendText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/sendText/main" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req SendTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Number != "5511999999999" || req.Text != "hello" {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(SendReceipt{MessageID: "m1", Status: "sent"})
	})

	receipt, err := client.SendText(context.Background(), "main", SendTextRequest{Number: "5511999999999", Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if receipt.MessageID != "m1" || receipt.Status != "sent" {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
}

func TestSendTextValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	if _, err := client.SendText(context.Background(), "main", SendTextRequest{Text: "hi"}); err == nil {
		t.Error("expected error for missing number")
	}
	if _, err := client.SendText(context.Background(), "main", SendTextRequest{Number: "1"}); err == nil {
		t.Error("expected error for missing text")
	}
}

func TestFindChats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Chat{
			{ID: "c1", Name: "Family", IsGroup: true},
			{ID: "c2", Name: "Ana"},
		})
	})
	chats, err := client.FindChats(context.Background(), "main")
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 || chats[0].ID != "c1" || !chats[0].IsGroup {
		t.Errorf("unexpected chats: %+v", chats)
	}
}

func TestConnectionState(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/instance/connectionState/main" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(InstanceState{Instance: "main", State: "open"})
	})
	state, err := client.ConnectionState(context.Background(), "main")
	if err != nil {
		t.Fatal(err)
	}
	if state.State != "open" {
		t.Errorf("state = %q", state.State)
	}
}
