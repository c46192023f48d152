package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCompleteSendsQueryAndContext(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agent/query", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(Completion{
			Response:   "the answer",
			TokensUsed: 42,
			ModelUsed:  "test-model",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	out, err := c.Complete(context.Background(), CompletionRequest{
		Query:      "what is the fund size?",
		Role:       "sub_agent",
		JSONOutput: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", out.Response)
	assert.Equal(t, 42, out.TokensUsed)

	assert.Equal(t, "what is the fund size?", captured["query"])
	reqCtx, ok := captured["context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sub_agent", reqCtx["role"])
	assert.NotNil(t, reqCtx["response_format"])
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	_, err := c.Complete(context.Background(), CompletionRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCompleteStructuredParsesFencedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Completion{
			Response: "```json\n{\"is_complete\":true,\"confidence\":\"high\"}\n```",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	var parsed struct {
		IsComplete bool   `json:"is_complete"`
		Confidence string `json:"confidence"`
	}
	_, err := c.CompleteStructured(context.Background(), CompletionRequest{Query: "q"}, &parsed)
	require.NoError(t, err)
	assert.True(t, parsed.IsComplete)
	assert.Equal(t, "high", parsed.Confidence)
}

func TestCompleteStructuredRejectsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Completion{Response: "not json at all"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())
	var parsed map[string]any
	_, err := c.CompleteStructured(context.Background(), CompletionRequest{Query: "q"}, &parsed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse structured response")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}
