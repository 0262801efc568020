package probe

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

// ProbeAll probes every endpoint concurrently and waits for all of them.
// out[i] is always the result for endpoints[i].
func (p *Prober) ProbeAll(ctx context.Context, endpoints []domain.Endpoint) []domain.ProbeResult {
	out := make([]domain.ProbeResult, len(endpoints))
	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep domain.Endpoint) {
			defer wg.Done()
			out[i] = p.safeProbe(ctx, ep)
		}(i, ep)
	}
	wg.Wait()
	return out
}

// safeProbe keeps a panicking probe from taking the whole cycle down. The
// stack goes to the log under a correlation id that is also put in the result.
func (p *Prober) safeProbe(ctx context.Context, ep domain.Endpoint) (res domain.ProbeResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			id := uuid.NewString()
			p.Logger.Error("probe_panic",
				zap.String("endpoint", ep.Name),
				zap.String("correlation_id", id),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			msg := fmt.Sprintf("probe panic (correlation_id: %s)", id)
			res = domain.ProbeResult{
				Name:              ep.Name,
				Timestamp:         start.UTC(),
				Status:            domain.StatusDown,
				Latency:           time.Since(start),
				ContentValidation: domain.ContentValidation{Errors: []string{}},
				Error:             &msg,
			}
		}
	}()
	return p.Probe(ctx, ep)
}
