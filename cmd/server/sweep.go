package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/billsplit/internal/storage"
)

// sweepInterval is how often expired sessions are purged for a token TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

// purgeExpired removes sessions idle for longer than ttl. A session's token
// is issued at creation, so an idle session past ttl has no live token.
func purgeExpired(ctx context.Context, store storage.Store, ttl time.Duration, now time.Time) {
	n, err := store.DeleteExpiredSessions(ctx, now.Add(-ttl).Unix())
	if err != nil {
		slog.Error("Failed to purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("Expired sessions purged", "count", n)
	}
}

// runSessionSweeper purges expired sessions until ctx is done.
func runSessionSweeper(ctx context.Context, store storage.Store, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval(ttl))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purgeExpired(ctx, store, ttl, now)
		}
	}
}
