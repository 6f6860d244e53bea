// Package gateway provides the HTTP client for the remote messaging gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 512

// Options configures the gateway client.
type Options struct {
	BaseURL string
	APIKey  string
	// Timeout applies per request; zero means 30s.
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls; zero disables the limiter.
	RequestsPerSecond int
}

// Client calls the messaging gateway HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(log *slog.Logger, opts Options) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     log.With(slog.String("client", "gateway")),
	}, nil
}

// GetBase64Media fetches the base64 payload for a media message.
// A 404 or empty body yields (nil, nil): the message has no media to fetch.
func (c *Client) GetBase64Media(ctx context.Context, instanceID, messageID string) (*MediaPayload, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, fmt.Errorf("message id is required")
	}
	body := map[string]any{
		"message": map[string]any{
			"key": map[string]any{"id": messageID},
		},
		"convertToMp4": false,
	}
	resp, err := c.do(ctx, http.MethodPost, "/chat/getBase64FromMediaMessage/"+url.PathEscape(instanceID), body)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read media response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var payload MediaPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}
	return &payload, nil
}

// SendText sends a plain text message through the given instance.
func (c *Client) SendText(ctx context.Context, instanceID string, req SendTextRequest) (*SendReceipt, error) {
	if strings.TrimSpace(req.Number) == "" {
		return nil, fmt.Errorf("number is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	resp, err := c.do(ctx, http.MethodPost, "/message/sendText/"+url.PathEscape(instanceID), req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var receipt SendReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode send response: %w", err)
	}
	return &receipt, nil
}

// FindChats lists the chats known to the given instance.
func (c *Client) FindChats(ctx context.Context, instanceID string) ([]Chat, error) {
	resp, err := c.do(ctx, http.MethodPost, "/chat/findChats/"+url.PathEscape(instanceID), map[string]any{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var chats []Chat
	if err := json.NewDecoder(resp.Body).Decode(&chats); err != nil {
		return nil, fmt.Errorf("decode chats response: %w", err)
	}
	return chats, nil
}

// ConnectionState reports the connection state of the given instance.
func (c *Client) ConnectionState(ctx context.Context, instanceID string) (*InstanceState, error) {
	resp, err := c.do(ctx, http.MethodGet, "/instance/connectionState/"+url.PathEscape(instanceID), nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var state InstanceState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode state response: %w", err)
	}
	return &state, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	return resp, nil
}

// checkStatus returns an error for non-2xx responses, embedding a truncated body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	detail := strings.TrimSpace(string(data))
	if detail == "" {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, detail)
}
