package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/cnds86/kiptrack/internal/logger"
	"github.com/cnds86/kiptrack/internal/models"
)

// DefaultPollInterval is used when a backend is created with no interval.
const DefaultPollInterval = 5 * time.Second

// versionFunc returns an opaque version of the stored document, "" when absent.
type versionFunc func(ctx context.Context) (string, error)

// fetchFunc returns the stored document and its version together.
type fetchFunc func(ctx context.Context) (*models.AppData, string, error)

// subscribePolling delivers the current document, then polls the version and
// refetches whenever it changes. Poll errors are logged and retried on the
// next tick.
func subscribePolling(
	ctx context.Context,
	backend string,
	interval time.Duration,
	version versionFunc,
	fetch fetchFunc,
	fn func(*models.AppData),
) (func(), error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	doc, seen, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	fn(doc)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			v, err := version(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Get().Warnw("Document poll failed", "backend", backend, "error", err)
				}
				continue
			}
			if v == seen {
				continue
			}
			doc, v, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Get().Warnw("Document fetch failed", "backend", backend, "error", err)
				}
				continue
			}
			seen = v
			fn(doc)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}, nil
}
