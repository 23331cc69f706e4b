// Package ask implements the fan-out pipeline behind the ask endpoint:
// validate the incoming payload, resolve per-provider credentials, fan
// the question out to every usable provider concurrently, wait for all
// outcomes and aggregate them into a single result.
package ask

import (
	"time"

	"github.com/askpanel/panel/services/providers"
)

// Query is the normalized ask request produced by ParseQuery. Schema
// and APIKeys stay opaque here: the schema is forwarded to the adapters
// untouched and the credentials are interpreted only by ResolveKeys.
type Query struct {
	Question string
	Schema   interface{}
	APIKeys  map[string]interface{}
}

// Result aggregates one fan-out across all dispatched providers.
// Responses preserve provider registration order regardless of which
// provider finished first.
type Result struct {
	RequestID        string              `json:"request_id"`
	Question         string              `json:"question"`
	Responses        []providers.Outcome `json:"responses"`
	ProvidersQueried int                 `json:"providers_queried"`
	TotalLatencyMs   int64               `json:"total_latency_ms"`
	CompletedAt      time.Time           `json:"completed_at"`
}
