package openapi

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
)

const maxErrorBodyBytes = 512

// InvokerOptions configures the HTTP proxy side of the bridge.
type InvokerOptions struct {
	BearerToken string
	Timeout     time.Duration
}

// Invoker executes operations against the document's base URL.
type Invoker struct {
	doc        *Document
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewInvoker creates an invoker for the loaded document.
func NewInvoker(log *slog.Logger, doc *Document, opts InvokerOptions) *Invoker {
	if log == nil {
		log = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Invoker{
		doc:        doc,
		token:      strings.TrimSpace(opts.BearerToken),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.With(slog.String("client", "openapi")),
	}
}

// Invoke performs the HTTP request for the operation with the given arguments
// and returns the decoded JSON response (non-JSON bodies come back as {"raw": text}).
func (inv *Invoker) Invoke(ctx context.Context, op Operation, arguments map[string]any) (map[string]any, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}

	path := op.Path
	query := url.Values{}
	headers := map[string]string{}
	for _, param := range op.Parameters {
		value, present := arguments[param.Name]
		if !present {
			if param.Required && param.In == "path" {
				return nil, fmt.Errorf("missing required path parameter %s", param.Name)
			}
			continue
		}
		text := argText(value)
		switch param.In {
		case "path":
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(text))
		case "query":
			query.Set(param.Name, text)
		case "header":
			headers[param.Name] = text
		}
	}

	body, err := buildBody(op, arguments)
	if err != nil {
		return nil, err
	}

	target := inv.doc.BaseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if inv.token != "" {
		req.Header.Set("Authorization", "Bearer "+inv.token)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	inv.logger.Debug("proxying operation",
		slog.String("operation", op.ID),
		slog.String("method", op.Method),
		slog.String("url", target),
	)
	resp, err := inv.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", op.ID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(data))
		if len(detail) > maxErrorBodyBytes {
			detail = detail[:maxErrorBodyBytes]
		}
		if detail == "" {
			return nil, fmt.Errorf("%s returned status %d", op.ID, resp.StatusCode)
		}
		return nil, fmt.Errorf("%s returned status %d: %s", op.ID, resp.StatusCode, detail)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{"status": resp.StatusCode}, nil
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return map[string]any{"raw": string(trimmed)}, nil
	}
	if object, ok := decoded.(map[string]any); ok {
		return object, nil
	}
	return map[string]any{"result": decoded}, nil
}

// buildBody assembles the JSON request body from the arguments: either the
// explicit "body" argument, or the flat body properties declared in the schema.
func buildBody(op Operation, arguments map[string]any) (map[string]any, error) {
	if op.BodySchema == nil {
		return nil, nil
	}
	if raw, ok := arguments["body"]; ok {
		object, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("body must be an object")
		}
		return object, nil
	}
	body := map[string]any{}
	for _, name := range bodyPropertyNames(op) {
		if value, ok := arguments[name]; ok {
			body[name] = value
		}
	}
	if len(body) == 0 {
		if op.BodyRequired {
			return nil, fmt.Errorf("request body is required")
		}
		return nil, nil
	}
	return body, nil
}

func argText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers arrive as float64; render integers without the decimal.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
