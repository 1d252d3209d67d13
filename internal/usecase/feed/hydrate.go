package feed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedex/internal/domain/record"
	"github.com/kailas-cloud/feedex/internal/logger"
	"github.com/kailas-cloud/feedex/internal/metrics"
)

// Hydrator resolves index hits to authoritative records in hit order.
type Hydrator struct {
	records RecordReader
}

// NewHydrator creates a Hydrator.
func NewHydrator(records RecordReader) *Hydrator {
	return &Hydrator{records: records}
}

// Hydrate loads ids in one batch and returns records in the order of ids.
// Ids whose record is missing or soft-deleted are dropped.
func (h *Hydrator) Hydrate(ctx context.Context, ids []int64) ([]record.Record, error) {
	if len(ids) == 0 {
		return []record.Record{}, nil
	}

	loaded, err := h.records.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate %d ids: %w", len(ids), err)
	}

	byID := make(map[int64]record.Record, len(loaded))
	for _, r := range loaded {
		if r.IsDeleted() {
			continue
		}
		byID[r.ID()] = r
	}

	out := make([]record.Record, 0, len(ids))
	var dropped []int64
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			dropped = append(dropped, id)
			continue
		}
		out = append(out, r)
	}

	if len(dropped) > 0 {
		metrics.FeedHydrationDroppedTotal.Add(float64(len(dropped)))
		logger.FromContext(ctx).Debug("hydration dropped index hits",
			zap.Int64s("ids", dropped),
		)
	}
	return out, nil
}
