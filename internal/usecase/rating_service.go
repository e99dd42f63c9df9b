package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
)

// RatingService drives the rating ledger: it walks a season's completed
// fixtures in chronological order and appends the pair of ledger entries
// each one produces.
type RatingService struct {
	fixtureRepo fixture.Repository
	ratingRepo  rating.Repository
	params      rating.Params
	logger      *logging.Logger
}

func NewRatingService(
	fixtureRepo fixture.Repository,
	ratingRepo rating.Repository,
	params rating.Params,
	logger *logging.Logger,
) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RatingService{
		fixtureRepo: fixtureRepo,
		ratingRepo:  ratingRepo,
		params:      params,
		logger:      logger,
	}
}

// ProcessReport summarizes one recalculation run.
type ProcessReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errored   int `json:"errored"`
}

// ProcessSeason appends ledger entries for every completed fixture of a
// season that is not in the ledger yet. Already-ledgered fixtures never
// reach the walk at all; skipped counts only fixtures still waiting for xG.
// Fixtures that fail individually are counted and logged without aborting
// the run. The walk is ordered by gameweek then kickoff so earlier results
// always shape the ratings that later results are judged against.
func (s *RatingService) ProcessSeason(ctx context.Context, season string) (ProcessReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.ProcessSeason")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return ProcessReport{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	fixtures, err := s.fixtureRepo.ListUnprocessedBySeason(ctx, season)
	if err != nil {
		return ProcessReport{}, fmt.Errorf("list unprocessed fixtures: %w", err)
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		if fixtures[i].Gameweek != fixtures[j].Gameweek {
			return fixtures[i].Gameweek < fixtures[j].Gameweek
		}
		if !fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		}
		return fixtures[i].ID < fixtures[j].ID
	})

	var report ProcessReport
	for _, fx := range fixtures {
		if !fx.HasXG() {
			report.Skipped++
			continue
		}

		if err := s.processFixture(ctx, fx); err != nil {
			report.Errored++
			s.logger.ErrorContext(ctx, "process fixture failed",
				"fixture_id", fx.ID,
				"season", season,
				"gameweek", fx.Gameweek,
				"error", err,
			)
			continue
		}
		report.Processed++
	}

	s.logger.InfoContext(ctx, "season ratings processed",
		"season", season,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"errored", report.Errored,
	)
	return report, nil
}

func (s *RatingService) processFixture(ctx context.Context, fx fixture.Fixture) error {
	home, ok, err := s.ratingRepo.GetTeamRating(ctx, fx.HomeTeamID)
	if err != nil {
		return fmt.Errorf("get home rating team=%s: %w", fx.HomeTeamID, err)
	}
	if !ok {
		return fmt.Errorf("%w: no rating for team=%s", ErrNotFound, fx.HomeTeamID)
	}
	away, ok, err := s.ratingRepo.GetTeamRating(ctx, fx.AwayTeamID)
	if err != nil {
		return fmt.Errorf("get away rating team=%s: %w", fx.AwayTeamID, err)
	}
	if !ok {
		return fmt.Errorf("%w: no rating for team=%s", ErrNotFound, fx.AwayTeamID)
	}

	homeChange, awayChange := rating.ComputeChanges(fx.ID, home, away, *fx.HomeXG, *fx.AwayXG, s.params)
	if err := s.ratingRepo.AppendChanges(ctx, homeChange, awayChange); err != nil {
		return fmt.Errorf("append ledger entries: %w", err)
	}
	return nil
}
