package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
)

// ExternalFixtureXG is one fixture's xG reading from the provider, keyed by
// our fixture id. Nil values mean the provider has no reading yet.
type ExternalFixtureXG struct {
	FixtureID string
	HomeXG    *float64
	AwayXG    *float64
}

// XGProvider fetches expected-goals data for a whole season from the
// upstream feed.
type XGProvider interface {
	FetchSeasonXG(ctx context.Context, season string) ([]ExternalFixtureXG, error)
}

// IngestionService pulls xG readings from the provider and writes them onto
// fixtures.
type IngestionService struct {
	provider    XGProvider
	fixtureRepo fixture.Repository
	workerCount int
	logger      *logging.Logger
}

func NewIngestionService(
	provider XGProvider,
	fixtureRepo fixture.Repository,
	workerCount int,
	logger *logging.Logger,
) *IngestionService {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		provider:    provider,
		fixtureRepo: fixtureRepo,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SyncReport summarizes one xG sync run.
type SyncReport struct {
	Fetched     int `json:"fetched"`
	Updated     int `json:"updated"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
	WorkerCount int `json:"worker_count"`
}

// SyncSeasonXG fetches the season's xG readings and applies them to
// fixtures over a bounded worker pool. Readings with a missing side or an
// unknown fixture are skipped; write failures are counted per fixture and
// never abort the run.
func (s *IngestionService) SyncSeasonXG(ctx context.Context, season string) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.SyncSeasonXG")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return SyncReport{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return SyncReport{}, fmt.Errorf("%w: xg feed is not configured", ErrDependencyUnavailable)
	}

	items, err := s.provider.FetchSeasonXG(ctx, season)
	if err != nil {
		return SyncReport{}, fmt.Errorf("fetch season xg: %w", err)
	}

	workerCount := s.workerCount
	if workerCount > len(items) && len(items) > 0 {
		workerCount = len(items)
	}
	report := SyncReport{Fetched: len(items), WorkerCount: workerCount}
	if len(items) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var updated, skipped, failed atomic.Int32
	var workers sync.WaitGroup
	for _, item := range items {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			switch s.applyReading(ctx, item) {
			case syncOutcomeUpdated:
				updated.Add(1)
			case syncOutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
		}); err != nil {
			workers.Done()
			return SyncReport{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	report.Updated = int(updated.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "season xg synced",
		"season", season,
		"fetched", report.Fetched,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

type syncOutcome int

const (
	syncOutcomeUpdated syncOutcome = iota
	syncOutcomeSkipped
	syncOutcomeFailed
)

func (s *IngestionService) applyReading(ctx context.Context, item ExternalFixtureXG) syncOutcome {
	if strings.TrimSpace(item.FixtureID) == "" || item.HomeXG == nil || item.AwayXG == nil {
		return syncOutcomeSkipped
	}
	if *item.HomeXG < 0 || *item.AwayXG < 0 {
		s.logger.WarnContext(ctx, "negative xg reading dropped", "fixture_id", item.FixtureID)
		return syncOutcomeSkipped
	}

	err := s.fixtureRepo.UpdateXG(ctx, item.FixtureID, fixture.XGUpdate{
		HomeXG: item.HomeXG,
		AwayXG: item.AwayXG,
	})
	if err != nil {
		if errors.Is(err, fixture.ErrNotFound) {
			return syncOutcomeSkipped
		}
		s.logger.ErrorContext(ctx, "apply xg reading failed", "fixture_id", item.FixtureID, "error", err)
		return syncOutcomeFailed
	}
	return syncOutcomeUpdated
}
