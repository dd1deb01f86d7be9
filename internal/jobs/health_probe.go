package jobs

import (
	"context"
	"log/slog"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// StartHealthProbe pings the database immediately and then every interval,
// reporting each outcome to report. Transitions are logged.
func StartHealthProbe(ctx context.Context, log *slog.Logger, interval time.Duration, db Pinger, report func(healthy bool)) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}

	last := probe(ctx, db, timeout)
	report(last)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				healthy := probe(ctx, db, timeout)
				if healthy != last {
					if healthy {
						log.Info("database reachable again")
					} else {
						log.Warn("database probe failed")
					}
				}
				last = healthy
				report(healthy)
			}
		}
	}()
}

func probe(ctx context.Context, db Pinger, timeout time.Duration) bool {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.Ping(pingCtx) == nil
}
