package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/askpanel/panel/internal/observability"
	"github.com/askpanel/panel/middleware"
	"github.com/askpanel/panel/services"
	"github.com/askpanel/panel/services/ask"
	"github.com/askpanel/panel/utils"
)

// AskService defines the interface for the fan-out query pipeline
type AskService interface {
	// Ask validates the payload, queries every provider with resolved
	// credentials, and aggregates the per-provider outcomes.
	Ask(ctx context.Context, payload map[string]interface{}) (*ask.Result, error)
}

// AskHandler handles panel query HTTP requests
type AskHandler struct {
	service AskService
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAskHandler creates a new AskHandler
func NewAskHandler(service AskService, logger *zap.Logger, metrics *observability.Metrics) *AskHandler {
	return &AskHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleAsk handles POST /api/v1/ask
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	// Parse request body. The payload stays a generic map so the service
	// layer owns all field-level validation.
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		h.metrics.ObserveRequest("validation_error")
		_ = utils.WriteError(w, http.StatusBadRequest, "invalid_json",
			"Request body must be valid JSON", nil)
		return
	}

	result, err := h.service.Ask(ctx, payload)
	if err != nil {
		h.metrics.ObserveRequest(requestStatus(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.metrics.ObserveRequest("success")

	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// requestStatus buckets a service error into a low-cardinality metric label
func requestStatus(err error) string {
	switch {
	case services.IsValidationError(err):
		return "validation_error"
	case services.IsNoProvidersError(err):
		return "no_providers"
	default:
		return "error"
	}
}
