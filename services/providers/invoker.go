package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/askpanel/panel/internal/observability"
)

// maxLoggedBodyBytes bounds how much of an error response body is
// written to the log. Bodies are never echoed back to the caller.
const maxLoggedBodyBytes = 512

// defaultInvokeTimeout bounds a provider call when no timeout is
// configured. LLM completions are slow, so the default is generous.
const defaultInvokeTimeout = 60 * time.Second

// Invoker executes a single provider call and converts every failure
// mode into a failed Outcome. It never returns an error to its caller:
// transport faults, non-2xx statuses, unparseable bodies and adapter
// extraction failures all surface as Outcome.Error with the latency of
// the attempt recorded.
type Invoker struct {
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewInvoker creates an invoker whose calls are bounded by timeout.
// There is no retry: one request maps to at most one call per provider.
func NewInvoker(timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Invoker {
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}
	return &Invoker{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Invoke performs exactly one call against the adapter's provider.
// The resolved credential is handed to the adapter, which decides
// whether it travels in a header or in the URL.
func (inv *Invoker) Invoke(ctx context.Context, adapter Adapter, question string, schema interface{}, key string) Outcome {
	start := time.Now()
	name := adapter.Name()

	inv.logger.Debug("dispatching to provider",
		zap.String("provider", name),
		zap.String("model", adapter.Config().Model))

	endpoint := adapter.Endpoint()
	if ub, ok := adapter.(URLBuilder); ok {
		endpoint = ub.BuildURL(key)
	}

	payload, err := adapter.BuildBody(question, schema)
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}
	req.Header.Set("Content-Type", "application/json")
	for header, values := range adapter.BuildHeaders(key) {
		for _, value := range values {
			req.Header.Add(header, value)
		}
	}

	resp, err := inv.httpClient.Do(req)
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := fmt.Sprintf("%s returned status %d", name, resp.StatusCode)
		return inv.failure(name, start, msg,
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateBody(respBody)))
	}

	if _, err := ParseJSON(string(respBody)); err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}

	data, err := adapter.ParseResponse(respBody)
	if err != nil {
		return inv.failure(name, start, err.Error(), zap.Error(err))
	}

	elapsed := time.Since(start)
	if inv.metrics != nil {
		inv.metrics.ObserveProvider(name, true, elapsed.Seconds())
	}
	inv.logger.Info("provider responded",
		zap.String("provider", name),
		zap.Int64("latency_ms", elapsed.Milliseconds()))

	return Outcome{
		Provider:  name,
		Success:   true,
		Data:      data,
		LatencyMs: elapsed.Milliseconds(),
	}
}

// failure finalizes a failed attempt: it stamps the latency, records
// the metric, logs the diagnostic fields and builds the Outcome.
func (inv *Invoker) failure(name string, start time.Time, msg string, fields ...zap.Field) Outcome {
	elapsed := time.Since(start)
	if inv.metrics != nil {
		inv.metrics.ObserveProvider(name, false, elapsed.Seconds())
	}

	fields = append(fields,
		zap.String("provider", name),
		zap.Int64("latency_ms", elapsed.Milliseconds()))
	inv.logger.Warn("provider call failed", fields...)

	return Outcome{
		Provider:  name,
		Success:   false,
		Error:     msg,
		LatencyMs: elapsed.Milliseconds(),
	}
}

func truncateBody(body []byte) string {
	if len(body) <= maxLoggedBodyBytes {
		return string(body)
	}
	return string(body[:maxLoggedBodyBytes])
}
