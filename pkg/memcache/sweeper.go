package mem

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is a cache that can drop its expired entries in one pass.
type Sweeper interface {
	Sweep() int
}

// SweepEvery calls Sweep on every sweeper each interval until ctx is done.
func SweepEvery(ctx context.Context, interval time.Duration, logger *zap.Logger, sweepers ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := 0
			for _, s := range sweepers {
				dropped += s.Sweep()
			}
			if dropped > 0 {
				logger.Debug("expired cache entries dropped", zap.Int("count", dropped))
			}
		}
	}
}
