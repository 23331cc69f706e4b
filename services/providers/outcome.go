package providers

// Outcome records the result of one provider dispatch. Success selects
// which of Data or Error is meaningful: Data carries the parsed answer
// on success, Error carries a human-readable failure message otherwise.
// LatencyMs is measured from dispatch start and recorded on every path,
// including failures.
type Outcome struct {
	Provider  string      `json:"provider"`
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
}
