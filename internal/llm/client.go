package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	ometrics "github.com/briefwright/orchestrator/internal/metrics"
)

// Client talks to the text-generation service. The service is treated as an
// opaque, potentially slow, potentially failing remote call: submit a prompt,
// receive text back.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a client for the generation service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CompletionRequest is one generation call.
type CompletionRequest struct {
	Query   string
	Role    string
	Context map[string]any
	// JSONOutput requests a JSON-object response format from providers that
	// support it; others ignore the hint.
	JSONOutput bool
}

// Completion is the service's reply.
type Completion struct {
	Response   string `json:"response"`
	TokensUsed int    `json:"tokens_used"`
	ModelUsed  string `json:"model_used"`
	Provider   string `json:"provider"`
}

// Complete performs a single generation call.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	ctxMap := make(map[string]any, len(req.Context)+2)
	for k, v := range req.Context {
		ctxMap[k] = v
	}
	if req.Role != "" {
		ctxMap["role"] = req.Role
	}
	if req.JSONOutput {
		ctxMap["response_format"] = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(map[string]any{
		"query":   req.Query,
		"context": ctxMap,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/agent/query"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		ometrics.GenerationErrors.Inc()
		return nil, fmt.Errorf("failed to call generation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ometrics.GenerationErrors.Inc()
		return nil, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var out Completion
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		ometrics.GenerationErrors.Inc()
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	ometrics.GenerationLatency.Observe(time.Since(start).Seconds())

	c.logger.Debug("Generation call completed",
		zap.String("role", req.Role),
		zap.Int("tokens_used", out.TokensUsed),
		zap.String("model", out.ModelUsed),
	)
	return &out, nil
}

// CompleteStructured performs a generation call that must return a JSON
// object and unmarshals it into v. Markdown code fences around the JSON are
// tolerated.
func (c *Client) CompleteStructured(ctx context.Context, req CompletionRequest, v any) (*Completion, error) {
	req.JSONOutput = true
	out, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(StripFences(out.Response)), v); err != nil {
		return out, fmt.Errorf("failed to parse structured response: %w", err)
	}
	return out, nil
}

// StripFences removes a surrounding markdown code fence from a response, if
// present, so fenced JSON still parses.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
