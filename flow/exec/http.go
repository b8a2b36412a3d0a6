// Package exec provides ready-made node executors: HTTP requests,
// conditional branching, delays, LLM calls, and a mock for tests.
//
// Executors read their settings from Node.Config. String settings may
// reference execution variables with {{name}} placeholders, which are
// substituted from the execution context before use.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flowgrid/flowgrid-go/flow"
)

// HTTPExecutor performs an HTTP request described by the node config.
//
// Config keys:
//   - url: target URL, required, supports {{var}} placeholders
//   - method: "GET" or "POST", defaults to "GET"
//   - headers: map of header name to string value
//   - body: request body string, supports {{var}} placeholders
//
// The result is a map with status_code, headers, and body. A response
// status of 500 or above is returned as an error so the retry policy can
// classify it; 4xx responses are returned as results since retrying them
// is pointless.
type HTTPExecutor struct {
	client *http.Client
}

// NewHTTPExecutor creates an HTTPExecutor. client may be nil to use a
// default client; timeouts come from the per-node deadline on the context.
func NewHTTPExecutor(client *http.Client) *HTTPExecutor {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPExecutor{client: client}
}

// Execute implements flow.Executor.
func (h *HTTPExecutor) Execute(ctx context.Context, node flow.Node, ec *flow.ExecutionContext) (any, error) {
	urlStr := interpolate(configString(node, "url"), ec)
	if urlStr == "" {
		return nil, fmt.Errorf("node %s: url config required", node.ID)
	}

	method := strings.ToUpper(configString(node, "method"))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("node %s: unsupported HTTP method %s", node.ID, method)
	}

	var body io.Reader
	if bodyStr := interpolate(configString(node, "body"), ec); bodyStr != "" {
		body = bytes.NewBufferString(bodyStr)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("node %s: build request: %w", node.ID, err)
	}
	if headers, ok := node.Config["headers"].(map[string]any); ok {
		for key, value := range headers {
			if valueStr, ok := value.(string); ok {
				req.Header.Set(key, interpolate(valueStr, ec))
			}
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("node %s: request failed: %w", node.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("node %s: read response: %w", node.ID, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("node %s: server returned %d %s", node.ID, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	respHeaders := make(map[string]any, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) == 1 {
			respHeaders[key] = values[0]
		} else {
			respHeaders[key] = values
		}
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"headers":     respHeaders,
		"body":        string(respBody),
	}, nil
}

// configString reads a string config value, returning "" when absent or of
// another type.
func configString(node flow.Node, key string) string {
	s, _ := node.Config[key].(string)
	return s
}

// interpolate substitutes {{name}} placeholders with the string form of
// the named execution variable. Unknown names are left in place.
func interpolate(s string, ec *flow.ExecutionContext) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for key, value := range ec.Variables() {
		placeholder := "{{" + key + "}}"
		if strings.Contains(s, placeholder) {
			s = strings.ReplaceAll(s, placeholder, fmt.Sprintf("%v", value))
		}
	}
	return s
}
