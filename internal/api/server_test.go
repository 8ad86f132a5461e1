package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scheme-rag/internal/config"
	"scheme-rag/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecommender struct {
	resp    *models.PromptResponse
	err     error
	queries []string
}

func (f *fakeRecommender) Query(_ context.Context, query string) (*models.PromptResponse, error) {
	f.queries = append(f.queries, query)
	return f.resp, f.err
}

func serverConfig() *config.ServerConfig {
	cfg := config.Default().Server
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000
	return &cfg
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := NewRouter(serverConfig(), &fakeRecommender{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecommend(t *testing.T) {
	rec := &fakeRecommender{resp: &models.PromptResponse{
		Query:   "scholarships for girls",
		Content: "**Pragati Scholarship**",
		Sources: []models.SourceRef{{Filename: "edu.pdf", PageNumber: 3, Similarity: 0.8}},
	}}
	router := NewRouter(serverConfig(), rec)

	w := post(router, `{"query":"scholarships for girls"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got recommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "**Pragati Scholarship**", got.Answer)
	assert.Contains(t, got.AnswerHTML, "<strong>Pragati Scholarship</strong>")
	assert.False(t, got.Fallback)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "edu.pdf", got.Sources[0].Filename)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, got.RequestID, w.Header().Get(requestIDHeader))
	assert.Equal(t, []string{"scholarships for girls"}, rec.queries)
}

func TestRecommendFallbackSkipsHTML(t *testing.T) {
	rec := &fakeRecommender{resp: &models.PromptResponse{Query: "q", Content: `{"x":1}`, Fallback: true}}

	w := post(NewRouter(serverConfig(), rec), `{"query":"q"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got recommendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Fallback)
	assert.Empty(t, got.AnswerHTML)
}

func TestRecommendBadRequest(t *testing.T) {
	rec := &fakeRecommender{}
	router := NewRouter(serverConfig(), rec)

	for _, body := range []string{`{}`, `not json`, `{"query":""}`} {
		w := post(router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, rec.queries)
}

func TestRecommendErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&models.AuthenticationError{StatusCode: 401, Body: "bad key"}, http.StatusBadGateway, "authentication_failed"},
		{&models.RemoteAPIError{StatusCode: 500, Body: "oops"}, http.StatusBadGateway, "upstream_error"},
		{&models.IndexBuildError{Stage: "extract", Err: errors.New("corrupt")}, http.StatusInternalServerError, "index_build_failed"},
		{errors.New("other"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := post(NewRouter(serverConfig(), &fakeRecommender{err: tc.err}), `{"query":"q"}`)
		assert.Equal(t, tc.status, w.Code)

		var got errorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, tc.code, got.Error)
		assert.Equal(t, tc.err.Error(), got.Message)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := serverConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	router := NewRouter(cfg, &fakeRecommender{resp: &models.PromptResponse{Content: "ok"}})

	assert.Equal(t, http.StatusOK, post(router, `{"query":"q"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, `{"query":"q"}`).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
