package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
)

type FixtureService struct {
	fixtureRepo fixture.Repository
}

func NewFixtureService(fixtureRepo fixture.Repository) *FixtureService {
	return &FixtureService{fixtureRepo: fixtureRepo}
}

// ListBySeason returns a season's fixtures, optionally narrowed to one
// gameweek.
func (s *FixtureService) ListBySeason(ctx context.Context, season string, gameweek *int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListBySeason")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if gameweek != nil && *gameweek < 1 {
		return nil, fmt.Errorf("%w: gameweek must be >= 1", ErrInvalidInput)
	}

	fixtures, err := s.fixtureRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	if gameweek == nil {
		return fixtures, nil
	}

	out := make([]fixture.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		if fx.Gameweek == *gameweek {
			out = append(out, fx)
		}
	}
	return out, nil
}

func (s *FixtureService) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetByID")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return fx, nil
}

// UpdateXG records post-match data on a fixture. Nil fields are left
// untouched; provided xG values must be non-negative and a provided
// gameweek must be positive.
func (s *FixtureService) UpdateXG(ctx context.Context, fixtureID string, update fixture.XGUpdate) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.UpdateXG")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if update.HomeXG == nil && update.AwayXG == nil && update.Gameweek == nil {
		return fixture.Fixture{}, fmt.Errorf("%w: update has no fields", ErrInvalidInput)
	}
	if update.HomeXG != nil && *update.HomeXG < 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: home xg must be >= 0", ErrInvalidInput)
	}
	if update.AwayXG != nil && *update.AwayXG < 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: away xg must be >= 0", ErrInvalidInput)
	}
	if update.Gameweek != nil && *update.Gameweek < 1 {
		return fixture.Fixture{}, fmt.Errorf("%w: gameweek must be >= 1", ErrInvalidInput)
	}

	_, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	if err := s.fixtureRepo.UpdateXG(ctx, fixtureID, update); err != nil {
		return fixture.Fixture{}, fmt.Errorf("update fixture xg: %w", err)
	}

	fx, _, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("reload fixture: %w", err)
	}
	return fx, nil
}
