package ask

import (
	"time"

	"github.com/askpanel/panel/services/providers"
)

// Aggregate folds the ordered outcomes of one fan-out into a Result.
// Partial success is a normal result, not an error; aggregation itself
// never fails.
func Aggregate(requestID, question string, outcomes []providers.Outcome, elapsed time.Duration) *Result {
	return &Result{
		RequestID:        requestID,
		Question:         question,
		Responses:        outcomes,
		ProvidersQueried: len(outcomes),
		TotalLatencyMs:   elapsed.Milliseconds(),
		CompletedAt:      time.Now().UTC(),
	}
}
