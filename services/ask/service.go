package ask

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/askpanel/panel/services/providers"
)

// Invoker executes a single provider call and always yields an Outcome.
// Satisfied by *providers.Invoker; narrowed to an interface so the
// pipeline tests can substitute instant fakes.
type Invoker interface {
	Invoke(ctx context.Context, adapter providers.Adapter, question string, schema interface{}, key string) providers.Outcome
}

// Service orchestrates the ask pipeline: validate the payload, resolve
// per-provider credentials, dispatch concurrently, join all outcomes
// and aggregate them into one result. The service is stateless across
// requests; everything request-scoped lives on the stack.
type Service struct {
	registry    *providers.Registry
	invoker     Invoker
	defaultKeys map[string]string
	logger      *zap.Logger
}

// NewService creates an ask service. defaultKeys maps provider names to
// process-level credentials; providers without an entry can still be
// reached with caller-supplied keys on individual requests.
func NewService(registry *providers.Registry, invoker Invoker, defaultKeys map[string]string, logger *zap.Logger) *Service {
	return &Service{
		registry:    registry,
		invoker:     invoker,
		defaultKeys: defaultKeys,
		logger:      logger,
	}
}

// Ask processes one query end to end and returns the aggregated result.
// Request-level failures (malformed payload, no usable providers) come
// back as DomainErrors; per-provider failures never do, they are folded
// into the result as failed outcomes.
func (s *Service) Ask(ctx context.Context, payload map[string]interface{}) (*Result, error) {
	start := time.Now()
	requestID := uuid.New().String()

	query, err := ParseQuery(payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("starting ask fan-out",
		zap.String("request_id", requestID),
		zap.Int("question_chars", len(query.Question)),
		zap.Bool("schema_supplied", query.Schema != nil))

	keys := ResolveKeys(query, s.defaultKeys, s.registry.Names())

	outcomes, err := s.dispatch(ctx, query, keys)
	if err != nil {
		s.logger.Warn("ask dispatch rejected",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	result := Aggregate(requestID, query.Question, outcomes, time.Since(start))

	succeeded := 0
	for _, outcome := range result.Responses {
		if outcome.Success {
			succeeded++
		}
	}

	s.logger.Info("ask fan-out completed",
		zap.String("request_id", requestID),
		zap.Int("providers_queried", result.ProvidersQueried),
		zap.Int("succeeded", succeeded),
		zap.Int64("total_latency_ms", result.TotalLatencyMs))

	return result, nil
}
