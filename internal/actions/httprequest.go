package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// HTTPRequestAction performs an HTTP call and exposes the response to the
// workflow context.
type HTTPRequestAction struct {
	// Client overrides the default client, used in tests.
	Client *http.Client
}

func (a *HTTPRequestAction) Type() string        { return "http_request" }
func (a *HTTPRequestAction) Description() string { return "Make an HTTP request" }

func (a *HTTPRequestAction) Validate(params map[string]any) error {
	if _, err := requireString(params, "url", a.Type()); err != nil {
		return err
	}
	method, err := requireString(params, "method", a.Type())
	if err != nil {
		return err
	}
	switch strings.ToUpper(method) {
	case "GET", "POST", "PUT", "DELETE":
		return nil
	default:
		return fmt.Errorf("unsupported HTTP method: %s", method)
	}
}

// Execute supports url, method, headers, body and timeout (seconds, default
// 30). Output holds status_code, data and headers; non-2xx responses fail
// the step.
func (a *HTTPRequestAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	if err := a.Validate(params); err != nil {
		return nil, err
	}
	url := params["url"].(string)
	method := strings.ToUpper(params["method"].(string))
	timeout := time.Duration(numParam(params, "timeout", 30)) * time.Second

	var bodyReader io.Reader
	if body, ok := params["body"]; ok && body != nil && (method == "POST" || method == "PUT") {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if headers, ok := params["headers"].(map[string]any); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}

	slog.Info("making http request", "method", method, "url", url)

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Prefer structured data when the body parses as JSON.
	var data any
	if err := json.Unmarshal(respBody, &data); err != nil {
		data = string(respBody)
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}
	return map[string]any{
		"status_code": resp.StatusCode,
		"data":        data,
		"headers":     respHeaders,
	}, nil
}
