package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/certverify-labs/certverify/internal/cache"
)

const snapshotCacheKey = "dashboard:snapshot"

// Store persists the most recent snapshot across restarts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Publisher pushes a fresh snapshot to connected clients.
type Publisher interface {
	PublishDashboard(snap *Snapshot)
}

// Refresher keeps a current snapshot by polling the backend on a fixed
// interval. Manual refreshes may race the ticker; the last completed
// fetch wins.
type Refresher struct {
	service   *Service
	store     Store
	publisher Publisher
	interval  time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}

	mu     sync.RWMutex
	latest *Snapshot
}

func NewRefresher(service *Service, store Store, publisher Publisher, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		service:   service,
		store:     store,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("dashboard refresher started", slog.Duration("interval", r.interval))

	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("initial dashboard refresh failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dashboard refresher stopped")
			return
		case <-r.stopCh:
			r.logger.Info("dashboard refresher stopped")
			return
		case <-ticker.C:
			if _, err := r.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error("dashboard refresh failed", "error", err)
			}
		}
	}
}

func (r *Refresher) Stop() {
	close(r.stopCh)
}

// Refresh fetches a snapshot now, stores it and publishes it.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := r.service.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.latest = snap
	r.mu.Unlock()

	if r.store != nil {
		payload, err := json.Marshal(snap)
		if err == nil {
			err = r.store.Set(ctx, snapshotCacheKey, payload, 2*r.interval)
		}
		if err != nil {
			r.logger.Warn("failed to cache dashboard snapshot", "error", err)
		}
	}

	if r.publisher != nil {
		r.publisher.PublishDashboard(snap)
	}

	return snap, nil
}

// Latest returns the most recent snapshot, falling back to the cached copy
// after a restart. Returns nil when no snapshot exists yet.
func (r *Refresher) Latest(ctx context.Context) *Snapshot {
	r.mu.RLock()
	snap := r.latest
	r.mu.RUnlock()
	if snap != nil {
		return snap
	}

	if r.store == nil {
		return nil
	}
	payload, err := r.store.Get(ctx, snapshotCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheExpired) {
			r.logger.Warn("failed to load cached dashboard snapshot", "error", err)
		}
		return nil
	}

	var cached Snapshot
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil
	}

	r.mu.Lock()
	if r.latest == nil {
		r.latest = &cached
	}
	snap = r.latest
	r.mu.Unlock()
	return snap
}
