package world

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Run applies remote store snapshots and sweeps expired connections every
// tick until ctx is done. It is the only goroutine that needs to drive the
// world; mutations from other goroutines remain safe.
func (w *World) Run(ctx context.Context, tick time.Duration) error {
	snapshots, err := w.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case recs, ok := <-snapshots:
			if !ok {
				w.logger.Debug("store watch closed")
				snapshots = nil
				continue
			}
			w.ReplaceAll(ctx, recs)
		case <-ticker.C:
			if _, err := w.Sweep(ctx, w.now()); err != nil {
				w.logger.Warn("sweep failed", "err", err)
			}
		}
	}
}

// TimeLeft formats the remaining lifetime of a connection as "<h>h <m>m".
// A minute is added before rounding down, so a connection shows "0h 1m"
// during its last minute. Past expiries read "0h 0m".
func TimeLeft(expiry, now time.Time) string {
	if expiry.Before(now) {
		return "0h 0m"
	}
	ms := expiry.Sub(now).Milliseconds() + 60000
	hours := int64(math.Floor(float64(ms) / 3600000))
	minutes := (ms - hours*3600000) / 60000
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
