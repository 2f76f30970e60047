package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevinmichaelchen/repo-lens/internal/github"
	"github.com/kevinmichaelchen/repo-lens/internal/llm"
	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

type stubSummarizer struct {
	result models.SummaryResult
	err    error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (models.SummaryResult, error) {
	return s.result, s.err
}

func newTestServer(stub *stubSummarizer) http.Handler {
	return New(stub, zap.NewNop()).Handler()
}

func postSummarize(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(&stubSummarizer{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSummarizeSuccess(t *testing.T) {
	stub := &stubSummarizer{result: models.SummaryResult{
		Summary:      "A rocket ship.",
		Technologies: []string{"Go"},
		Structure:    "cmd and internal.",
	}}
	rec := postSummarize(t, newTestServer(stub), `{"github_url": "https://github.com/acme/rocket"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var res models.SummaryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, stub.result, res)
}

func TestSummarizeBadBody(t *testing.T) {
	h := newTestServer(&stubSummarizer{})
	assert.Equal(t, http.StatusUnprocessableEntity, postSummarize(t, h, `{`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, postSummarize(t, h, `{}`).Code)
}

func TestSummarizeErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", fmt.Errorf("%w: x", github.ErrInvalidURL), http.StatusUnprocessableEntity},
		{"not found", github.ErrNotFound, http.StatusNotFound},
		{"forbidden", github.ErrForbidden, http.StatusForbidden},
		{"rate limited", &github.RateLimitError{}, http.StatusTooManyRequests},
		{"model unauthenticated", llm.ErrUnauthenticated, http.StatusUnauthorized},
		{"model timeout", fmt.Errorf("%w: timed out: %w", llm.ErrUpstream, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"model upstream", fmt.Errorf("%w: 503", llm.ErrUpstream), http.StatusBadGateway},
		{"contract violation", &llm.ContractViolationError{Reason: "missing field"}, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(&stubSummarizer{err: tc.err})
			rec := postSummarize(t, h, `{"github_url": "https://github.com/acme/rocket"}`)
			assert.Equal(t, tc.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&stubSummarizer{})
	req := httptest.NewRequest(http.MethodGet, "/summarize", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
