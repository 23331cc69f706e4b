package ask

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/askpanel/panel/services"
	"github.com/askpanel/panel/services/providers"
)

// dispatch fans the question out to every registered provider that has
// a resolved credential, concurrently, and waits for all of them.
// Outcomes come back indexed by registration order; each goroutine
// writes only its own slice slot, so no further synchronization is
// needed beyond the WaitGroup.
//
// Zero dispatchable providers is a request-level error and no network
// activity happens at all.
func (s *Service) dispatch(ctx context.Context, query *Query, keys map[string]string) ([]providers.Outcome, error) {
	type invocation struct {
		adapter providers.Adapter
		key     string
	}

	var invocations []invocation
	for _, adapter := range s.registry.Ordered() {
		key, ok := keys[adapter.Name()]
		if !ok {
			s.logger.Debug("skipping provider without credentials",
				zap.String("provider", adapter.Name()))
			continue
		}
		invocations = append(invocations, invocation{adapter: adapter, key: key})
	}

	if len(invocations) == 0 {
		return nil, services.ErrNoProvidersAvailable
	}

	schema := query.Schema
	if schema == nil {
		schema = providers.DefaultSchema()
	}

	outcomes := make([]providers.Outcome, len(invocations))

	var wg sync.WaitGroup
	for i, inv := range invocations {
		wg.Add(1)
		go func(i int, inv invocation) {
			defer wg.Done()
			outcomes[i] = s.invoker.Invoke(ctx, inv.adapter, query.Question, schema, inv.key)
		}(i, inv)
	}
	wg.Wait()

	return outcomes, nil
}
