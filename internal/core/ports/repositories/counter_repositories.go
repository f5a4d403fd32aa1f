package repositories

import (
	"context"
	"time"
)

// CounterRepositoryFacade allocates business entry-ID counters. NextCounter
// must be a single atomic increment per (prefix, day): concurrent callers
// may never observe the same value.
type CounterRepositoryFacade interface {
	NextCounter(ctx context.Context, prefix string, day time.Time) (int64, error)
}
