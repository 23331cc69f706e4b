package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/askpanel/panel/services"
	"github.com/askpanel/panel/utils"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := services.GetErrorDetails(err)

	switch {
	case services.IsValidationError(err):
		if writeErr := utils.WriteBadRequest(w, err.Error(), details); writeErr != nil {
			logger.Error("failed to write bad request response", zap.Error(writeErr))
		}

	case services.IsNoProvidersError(err):
		// No resolvable credentials for any provider. The caller can fix
		// this by supplying api_keys, so it maps to a 400.
		if writeErr := utils.WriteError(w, http.StatusBadRequest, "no_providers", err.Error(), details); writeErr != nil {
			logger.Error("failed to write no providers response", zap.Error(writeErr))
		}

	case services.IsInternalError(err):
		// Log internal errors but return a generic message
		logger.Error("internal server error", zap.Error(err))
		if writeErr := utils.WriteInternalServerError(w, "An internal error occurred"); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}

	default:
		// Unknown error type, log and return internal error
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if writeErr := utils.WriteInternalServerError(w, "An unexpected error occurred"); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}
	}
}
