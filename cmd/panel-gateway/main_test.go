package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/askpanel/panel/app"
	"github.com/askpanel/panel/config"
	"github.com/askpanel/panel/routes"
	"github.com/askpanel/panel/services/providers"
)

func TestMain(m *testing.M) {
	// Setup
	os.Setenv("ENVIRONMENT", "test")
	os.Setenv("LOG_LEVEL", "error")

	// Run tests
	code := m.Run()

	// Teardown
	os.Exit(code)
}

func TestInitLogger(t *testing.T) {
	t.Run("default json logger", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "info")
		os.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("development console logger", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("LOG_FORMAT", "console")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})

	t.Run("invalid log level", func(t *testing.T) {
		os.Setenv("LOG_LEVEL", "invalid")
		os.Setenv("LOG_FORMAT", "json")

		logger, err := initLogger()
		assert.Error(t, err)
		assert.Nil(t, logger)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("defaults when not set", func(t *testing.T) {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LOG_FORMAT")

		logger, err := initLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
		defer logger.Sync()
	})
}

func TestApplicationStartup(t *testing.T) {
	cfg := testConfig(t)
	ts := newTestServer(t, cfg)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t)
	ts := newTestServer(t, cfg)
	defer ts.Close()

	t.Run("health check returns ok", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("readiness check reports providers", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, "ready", body["status"])

		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "registered", checks["providers"])
	})

	t.Run("status endpoint returns version info", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&body)
		require.NoError(t, err)
		assert.Contains(t, body, "version")
		assert.Contains(t, body, "environment")
		assert.Contains(t, body, "providers")
	})

	t.Run("provider list names all four providers", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/v1/providers")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&body)
		require.NoError(t, err)
		assert.Equal(t, float64(4), body["count"])
	})
}

func TestReadinessCheckWithoutProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observability.MetricsEnabled = false
	logger := zaptest.NewLogger(t)

	// Hand-built dependencies with an empty registry simulate a broken
	// startup.
	deps := &app.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: providers.NewRegistry(),
	}

	handler := routes.SetupRoutes(deps)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	require.NoError(t, err)
	assert.Equal(t, "not_ready", body["status"])
}

func TestAPIEndpoints(t *testing.T) {
	cfg := testConfig(t)
	ts := newTestServer(t, cfg)
	defer ts.Close()

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"status", "GET", "/api/v1/status", http.StatusOK},
		{"provider list", "GET", "/api/v1/providers", http.StatusOK},
		{"ask wrong method", "GET", "/api/v1/ask", http.StatusMethodNotAllowed},
		{"not found", "GET", "/api/v1/nonexistent", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "endpoint: %s %s", tc.method, tc.path)
		})
	}
}

func TestAskEndpoint(t *testing.T) {
	t.Run("missing query returns 400", func(t *testing.T) {
		ts := newTestServer(t, testConfig(t))
		defer ts.Close()

		resp := postJSON(t, ts.URL+"/api/v1/ask", `{"schema":{"type":"object"}}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Contains(t, body["message"], "query field is required")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		ts := newTestServer(t, testConfig(t))
		defer ts.Close()

		resp := postJSON(t, ts.URL+"/api/v1/ask", `{"query":`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "invalid_json", body["error"])
	})

	t.Run("no credentials returns no_providers", func(t *testing.T) {
		ts := newTestServer(t, testConfig(t))
		defer ts.Close()

		resp := postJSON(t, ts.URL+"/api/v1/ask", `{"query":"What is the capital of France?"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "no_providers", body["error"])
	})

	t.Run("caller key fans out end to end", func(t *testing.T) {
		var gotAuth string
		mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"answer\":\"Paris\"}"}}]}`))
		}))
		defer mock.Close()

		cfg := testConfig(t)
		cfg.Providers.OpenAI.BaseURL = mock.URL

		ts := newTestServer(t, cfg)
		defer ts.Close()

		resp := postJSON(t, ts.URL+"/api/v1/ask",
			`{"query":"What is the capital of France?","api_keys":{"openai":"sk-caller"}}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Equal(t, "Bearer sk-caller", gotAuth)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "What is the capital of France?", body["question"])
		assert.Equal(t, float64(1), body["providers_queried"])

		responses := body["responses"].([]interface{})
		require.Len(t, responses, 1)

		outcome := responses[0].(map[string]interface{})
		assert.Equal(t, "openai", outcome["provider"])
		assert.Equal(t, true, outcome["success"])
		assert.Equal(t, "Paris", outcome["data"].(map[string]interface{})["answer"])
	})

	t.Run("default key fans out end to end", func(t *testing.T) {
		var gotAuth string
		mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"answer\":\"4\"}"}}]}`))
		}))
		defer mock.Close()

		cfg := testConfig(t)
		cfg.Providers.DeepSeek.APIKey = "sk-default"
		cfg.Providers.DeepSeek.BaseURL = mock.URL

		ts := newTestServer(t, cfg)
		defer ts.Close()

		resp := postJSON(t, ts.URL+"/api/v1/ask", `{"query":"What is 2+2?"}`)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Bearer sk-default", gotAuth)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, float64(1), body["providers_queried"])

		responses := body["responses"].([]interface{})
		require.Len(t, responses, 1)
		assert.Equal(t, "deepseek", responses[0].(map[string]interface{})["provider"])
	})
}

func TestCORSMiddleware(t *testing.T) {
	ts := newTestServer(t, testConfig(t))
	defer ts.Close()

	t.Run("OPTIONS preflight request", func(t *testing.T) {
		req, err := http.NewRequest("OPTIONS", ts.URL+"/api/v1/ask", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	ts := newTestServer(t, testConfig(t))
	defer ts.Close()

	t.Run("response carries a generated request ID", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("inbound request ID is echoed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "trace-42")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "trace-42", resp.Header.Get("X-Request-ID"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("disabled metrics endpoint is not routed", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Observability.MetricsEnabled = false

		ts := newTestServer(t, cfg)
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("request counters appear after traffic", func(t *testing.T) {
		ts := newTestServer(t, testConfig(t))
		defer ts.Close()

		// Generate one rejected ask request so the counter has a sample.
		resp := postJSON(t, ts.URL+"/api/v1/ask", `{"query":"hi"}`)
		resp.Body.Close()

		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "panel_requests_total")
	})
}

// Test helpers

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Providers: config.ProvidersConfig{
			RequestTimeout: 5 * time.Second,
		},
		Observability: config.ObservabilityConfig{
			LogLevel:       "error",
			LogFormat:      "json",
			MetricsEnabled: true,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	logger := zaptest.NewLogger(t)
	deps, err := app.NewDependencies(context.Background(), cfg, logger)
	require.NoError(t, err)

	return httptest.NewServer(routes.SetupRoutes(deps))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	return resp
}
