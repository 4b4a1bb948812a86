package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclassical/league-data/internal/config"
	"github.com/openclassical/league-data/internal/runner"
)

type fakeTrigger struct {
	result runner.Result
	err    error
	calls  int
}

func (f *fakeTrigger) Run(context.Context) (runner.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeStore struct {
	err error
}

func (f *fakeStore) HealthCheck(context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		RateLimitEnabled:  false,
		RateLimitRequests: 30,
		RateLimitWindow:   time.Minute,
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRunEndpoint(t *testing.T) {
	trigger := &fakeTrigger{
		result: runner.Result{SeasonsProcessed: 1, WeeksProcessed: 1, ResultsAppended: 2},
	}
	router := NewRouter(trigger, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, trigger.calls)

	body := decode(t, rec)
	assert.Equal(t, "complete", body["status"])
	assert.Contains(t, body["summary"], "appended=2")
}

func TestRunEndpointReportsPartialErrors(t *testing.T) {
	result := runner.Result{SeasonsProcessed: 1}
	result.AddErrorf("fetch games for alice99 2026/03: timeout")
	router := NewRouter(&fakeTrigger{result: result}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run", nil))

	// Per-unit failures stay on the summary, not the status code.
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Len(t, body["errors"], 1)
}

func TestRunEndpointFailure(t *testing.T) {
	router := NewRouter(&fakeTrigger{err: errors.New("load active seasons: boom")}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody, ok := decode(t, rec)["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "RUN_FAILED", errBody["code"])
	assert.Contains(t, errBody["message"], "load active seasons")
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(&fakeTrigger{}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestHealthSheetsEndpoint(t *testing.T) {
	router := NewRouter(&fakeTrigger{}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/sheets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reachable", decode(t, rec)["spreadsheet"])

	router = NewRouter(&fakeTrigger{}, &fakeStore{err: errors.New("credentials expired")}, testConfig())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/sheets", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unreachable", decode(t, rec)["spreadsheet"])
}

func TestRootEndpoint(t *testing.T) {
	router := NewRouter(&fakeTrigger{}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "League Results Bot", decode(t, rec)["name"])
}

func TestTimingHeader(t *testing.T) {
	router := NewRouter(&fakeTrigger{}, &fakeStore{}, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	// A 4-per-minute window yields a burst of 2, so the third back-to-back
	// request is rejected.
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 4
	router := NewRouter(&fakeTrigger{}, &fakeStore{}, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
