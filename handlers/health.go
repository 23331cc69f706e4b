package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/askpanel/panel/app"
)

// HealthCheck returns a simple health check handler
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessCheck reports whether the gateway can serve ask requests
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"status": "ready",
			"checks": map[string]string{},
		}

		// Check providers
		if deps.Registry.Count() == 0 {
			response["status"] = "not_ready"
			response["checks"].(map[string]string)["providers"] = "none_registered"
		} else {
			response["checks"].(map[string]string)["providers"] = "registered"
		}

		// Default credentials are optional: callers may supply api_keys
		// per request, so their absence does not fail readiness.
		if len(deps.Config.Providers.DefaultKeys()) == 0 {
			response["checks"].(map[string]string)["default_credentials"] = "none_configured"
		} else {
			response["checks"].(map[string]string)["default_credentials"] = "configured"
		}

		w.Header().Set("Content-Type", "application/json")
		if response["status"] == "ready" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"version":     "0.1.0",
			"environment": deps.Config.Environment,
			"providers":   deps.Registry.Names(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ProviderInfo describes one registered provider. Configured reports
// whether a process-level credential exists; the key itself is never
// echoed.
type ProviderInfo struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	Endpoint   string `json:"endpoint"`
	Configured bool   `json:"configured"`
}

// ProviderListHandler returns the registered providers in dispatch order
func ProviderListHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defaultKeys := deps.Config.Providers.DefaultKeys()

		adapters := deps.Registry.Ordered()
		infos := make([]ProviderInfo, 0, len(adapters))
		for _, adapter := range adapters {
			infos = append(infos, ProviderInfo{
				Name:       adapter.Name(),
				Model:      adapter.Config().Model,
				Endpoint:   adapter.Endpoint(),
				Configured: defaultKeys[adapter.Name()] != "",
			})
		}

		response := map[string]interface{}{
			"providers": infos,
			"count":     len(infos),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
