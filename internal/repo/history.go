package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/domain"
)

// HistoryRepo keeps the capped, newest-first result log of each endpoint on
// top of a KV. Each endpoint is one key; writes never span keys.
type HistoryRepo struct {
	kv  KV
	log *zap.Logger
}

func NewHistoryRepo(kv KV) *HistoryRepo {
	return &HistoryRepo{kv: kv, log: zap.NewNop()}
}

// WithLogger sets where skipped corrupt keys are reported.
func (h *HistoryRepo) WithLogger(l *zap.Logger) *HistoryRepo {
	if l != nil {
		h.log = l
	}
	return h
}

// Load returns the stored history for one endpoint, nil if there is none.
func (h *HistoryRepo) Load(ctx context.Context, name string) ([]domain.ProbeResult, error) {
	raw, err := h.kv.Get(ctx, Key(name))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Key(name), err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []domain.ProbeResult
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptHistory, Key(name), err)
	}
	return list, nil
}

// Append prepends r to its endpoint's history and truncates to MaxHistory.
// A corrupt stored value is skipped: it is logged and left as is.
func (h *HistoryRepo) Append(ctx context.Context, r domain.ProbeResult) error {
	list, err := h.Load(ctx, r.Name)
	if errors.Is(err, ErrCorruptHistory) {
		h.log.Warn("history_corrupt", zap.String("key", Key(r.Name)), zap.String("op", "append"), zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	b, err := json.Marshal(domain.Prepend(list, r))
	if err != nil {
		return fmt.Errorf("encode %s: %w", Key(r.Name), err)
	}
	if err := h.kv.Put(ctx, Key(r.Name), b); err != nil {
		return fmt.Errorf("put %s: %w", Key(r.Name), err)
	}
	return nil
}

// ReadAll loads the history of every named endpoint. Endpoints without
// stored results, or with a corrupt value, are left out, so an empty store
// yields an empty map.
func (h *HistoryRepo) ReadAll(ctx context.Context, names []string) (domain.History, error) {
	out := make(domain.History, len(names))
	for _, n := range names {
		list, err := h.Load(ctx, n)
		if errors.Is(err, ErrCorruptHistory) {
			h.log.Warn("history_corrupt", zap.String("key", Key(n)), zap.String("op", "read"), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			out[n] = list
		}
	}
	return out, nil
}
