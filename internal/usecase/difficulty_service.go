package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/openfooty/fixture-difficulty/internal/domain/difficulty"
	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/domain/team"
	"github.com/openfooty/fixture-difficulty/internal/platform/cache"
)

// DifficultyService answers schedule-difficulty queries. Each query runs
// against a frozen model built from the current rating snapshot; the model
// and fixture list are cached per season and dropped on Invalidate, which
// the rating recalculation job calls after appending ledger entries.
type DifficultyService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	ratingRepo  rating.Repository
	steepness   float64
	store       *cache.Store
}

func NewDifficultyService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	ratingRepo rating.Repository,
	steepness float64,
	store *cache.Store,
) *DifficultyService {
	return &DifficultyService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		ratingRepo:  ratingRepo,
		steepness:   steepness,
		store:       store,
	}
}

// DifficultyQuery narrows a league difficulty request. Start and End are an
// inclusive gameweek span; a single-gameweek window has Start == End.
type DifficultyQuery struct {
	Season      string
	Start       int
	End         int
	Orientation difficulty.Orientation
	Policy      difficulty.TierPolicy
	Ascending   bool
}

// TeamDifficulty is one team's scored window inside a league table.
type TeamDifficulty struct {
	TeamID string
	Score  float64
	Tier   difficulty.Tier
}

// Invalidate drops every cached view of a season so the next query rebuilds
// the model from fresh ratings.
func (s *DifficultyService) Invalidate(ctx context.Context, season string) {
	if s.store == nil {
		return
	}
	s.store.DeletePrefix(ctx, seasonCachePrefix(season))
}

// TeamWindow scores one team's window.
func (s *DifficultyService) TeamWindow(
	ctx context.Context,
	season, teamID string,
	start, end int,
	orientation difficulty.Orientation,
) (difficulty.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.TeamWindow")
	defer span.End()

	season = strings.TrimSpace(season)
	teamID = strings.TrimSpace(teamID)
	if season == "" {
		return difficulty.Result{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if teamID == "" {
		return difficulty.Result{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if err := validateWindow(start, end); err != nil {
		return difficulty.Result{}, err
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return difficulty.Result{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return difficulty.Result{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	model, fixtures, err := s.loadSeason(ctx, season)
	if err != nil {
		return difficulty.Result{}, err
	}

	opponents := difficulty.OpponentsInRange(fixtures, teamID, start, end)
	return model.Score(teamID, opponents, orientation), nil
}

// LeagueWindow scores the same window for every team in the season and
// returns the table sorted by score. Under the percentile policy, tiers are
// assigned by league rank instead of the absolute thresholds; teams with an
// empty window stay invalid under either policy and are excluded from the
// percentile distribution.
func (s *DifficultyService) LeagueWindow(ctx context.Context, query DifficultyQuery) ([]TeamDifficulty, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DifficultyService.LeagueWindow")
	defer span.End()

	query.Season = strings.TrimSpace(query.Season)
	if query.Season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if err := validateWindow(query.Start, query.End); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListBySeason(ctx, query.Season)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	model, fixtures, err := s.loadSeason(ctx, query.Season)
	if err != nil {
		return nil, err
	}

	results := iter.Map(teams, func(t *team.Team) TeamDifficulty {
		opponents := difficulty.OpponentsInRange(fixtures, t.ID, query.Start, query.End)
		res := model.Score(t.ID, opponents, query.Orientation)
		return TeamDifficulty{TeamID: t.ID, Score: res.Score, Tier: res.Tier}
	})

	if query.Policy == difficulty.TierPolicyPercentile {
		applyPercentileTiers(results)
	}

	scores := make([]difficulty.TeamScore, len(results))
	byTeam := make(map[string]TeamDifficulty, len(results))
	for i, r := range results {
		scores[i] = difficulty.TeamScore{TeamID: r.TeamID, Score: r.Score}
		byTeam[r.TeamID] = r
	}
	difficulty.SortTeamScores(scores, query.Ascending)

	out := make([]TeamDifficulty, len(scores))
	for i, sc := range scores {
		out[i] = byTeam[sc.TeamID]
	}
	return out, nil
}

func applyPercentileTiers(results []TeamDifficulty) {
	valid := make([]difficulty.TeamScore, 0, len(results))
	for _, r := range results {
		if r.Tier == difficulty.TierInvalid {
			continue
		}
		valid = append(valid, difficulty.TeamScore{TeamID: r.TeamID, Score: r.Score})
	}
	if len(valid) == 0 {
		return
	}

	tiers := difficulty.PercentileTiers(valid)
	for i := range results {
		if results[i].Tier == difficulty.TierInvalid {
			continue
		}
		results[i].Tier = tiers[results[i].TeamID]
	}
}

type seasonView struct {
	model    *difficulty.Model
	fixtures []fixture.Fixture
}

func (s *DifficultyService) loadSeason(ctx context.Context, season string) (*difficulty.Model, []fixture.Fixture, error) {
	load := func(ctx context.Context) (any, error) {
		ratings, err := s.ratingRepo.ListTeamRatings(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("list team ratings: %w", err)
		}
		fixtures, err := s.fixtureRepo.ListBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("list fixtures: %w", err)
		}
		return seasonView{
			model:    difficulty.NewModel(ratings, s.steepness),
			fixtures: fixtures,
		}, nil
	}

	if s.store == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, nil, err
		}
		view := value.(seasonView)
		return view.model, view.fixtures, nil
	}

	value, err := s.store.GetOrLoad(ctx, seasonCachePrefix(season)+"view", load)
	if err != nil {
		return nil, nil, err
	}
	view, ok := value.(seasonView)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected cached value for season=%s", season)
	}
	return view.model, view.fixtures, nil
}

func validateWindow(start, end int) error {
	if start < 1 {
		return fmt.Errorf("%w: start gameweek must be >= 1", ErrInvalidInput)
	}
	if end < start {
		return fmt.Errorf("%w: end gameweek must be >= start", ErrInvalidInput)
	}
	return nil
}

func seasonCachePrefix(season string) string {
	return "difficulty:" + strings.TrimSpace(season) + ":"
}
