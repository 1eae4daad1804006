package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/certverify-labs/certverify/internal/backend"
	"github.com/certverify-labs/certverify/internal/domain"
)

// Snapshot aggregates the four backend reads the dashboard shows. A failed
// section is left nil with its error recorded; the other sections are
// unaffected.
type Snapshot struct {
	Statistics       *domain.Statistics       `json:"statistics,omitempty"`
	LedgerStatistics *domain.LedgerStatistics `json:"ledger_statistics,omitempty"`
	LedgerIntegrity  *domain.LedgerIntegrity  `json:"ledger_integrity,omitempty"`
	SystemHealth     *domain.SystemHealth     `json:"system_health,omitempty"`
	Errors           map[string]string        `json:"errors,omitempty"`
	FetchedAt        time.Time                `json:"fetched_at"`
}

// Complete reports whether every section loaded.
func (s *Snapshot) Complete() bool {
	return len(s.Errors) == 0
}

type Service struct {
	backend backend.Backend
	logger  *slog.Logger
}

func NewService(b backend.Backend, logger *slog.Logger) *Service {
	return &Service{backend: b, logger: logger}
}

// Snapshot fetches all dashboard sections concurrently. It only returns an
// error when the context is cancelled; individual section failures are
// reported inside the snapshot.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Errors:    make(map[string]string),
		FetchedAt: time.Now(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	fetch := func(section string, load func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := load(); err != nil {
				s.logger.Warn("dashboard section unavailable",
					slog.String("section", section),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				snap.Errors[section] = err.Error()
				mu.Unlock()
			}
		}()
	}

	fetch("statistics", func() error {
		stats, err := s.backend.Statistics(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Statistics = stats
		mu.Unlock()
		return nil
	})

	fetch("ledger_statistics", func() error {
		stats, err := s.backend.LedgerStatistics(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.LedgerStatistics = stats
		mu.Unlock()
		return nil
	})

	fetch("ledger_integrity", func() error {
		integrity, err := s.backend.LedgerIntegrity(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.LedgerIntegrity = integrity
		mu.Unlock()
		return nil
	})

	fetch("system_health", func() error {
		health, err := s.backend.SystemHealth(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.SystemHealth = health
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap, nil
}
