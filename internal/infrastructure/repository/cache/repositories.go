// Package cache wraps the persistent repositories with read-through caching.
// Reads are served from the in-process store, writes pass through and drop
// the affected keys so the next read reloads from the source of truth.
package cache

import (
	"context"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/domain/team"
	basecache "github.com/openfooty/fixture-difficulty/internal/platform/cache"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, store *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: store}
}

func (r *TeamRepository) ListBySeason(ctx context.Context, season string) ([]team.Team, error) {
	value, err := r.cache.GetOrLoad(ctx, "team:list:"+season, func(ctx context.Context) (any, error) {
		return r.next.ListBySeason(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	items, _ := value.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	value, err := r.cache.GetOrLoad(ctx, "team:id:"+teamID, func(ctx context.Context) (any, error) {
		item, ok, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: ok}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	cached, _ := value.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, store *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: store}
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, season string) ([]fixture.Fixture, error) {
	value, err := r.cache.GetOrLoad(ctx, "fixture:list:"+season, func(ctx context.Context) (any, error) {
		return r.next.ListBySeason(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	items, _ := value.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

type cachedFixtureByID struct {
	value  fixture.Fixture
	exists bool
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	value, err := r.cache.GetOrLoad(ctx, "fixture:id:"+fixtureID, func(ctx context.Context) (any, error) {
		item, ok, err := r.next.GetByID(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		return cachedFixtureByID{value: item, exists: ok}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	cached, _ := value.(cachedFixtureByID)
	return cached.value, cached.exists, nil
}

// ListUnprocessedBySeason is never cached. Its answer changes with every
// ledger append and a stale read would reprocess fixtures.
func (r *FixtureRepository) ListUnprocessedBySeason(ctx context.Context, season string) ([]fixture.Fixture, error) {
	return r.next.ListUnprocessedBySeason(ctx, season)
}

func (r *FixtureRepository) UpdateXG(ctx context.Context, fixtureID string, update fixture.XGUpdate) error {
	if err := r.next.UpdateXG(ctx, fixtureID, update); err != nil {
		return err
	}
	r.cache.Delete(ctx, "fixture:id:"+fixtureID)
	r.cache.DeletePrefix(ctx, "fixture:list:")
	return nil
}

type RatingRepository struct {
	next  rating.Repository
	cache *basecache.Store
}

func NewRatingRepository(next rating.Repository, store *basecache.Store) *RatingRepository {
	return &RatingRepository{next: next, cache: store}
}

type cachedRatingByTeam struct {
	value  rating.TeamRating
	exists bool
}

func (r *RatingRepository) GetTeamRating(ctx context.Context, teamID string) (rating.TeamRating, bool, error) {
	value, err := r.cache.GetOrLoad(ctx, "rating:team:"+teamID, func(ctx context.Context) (any, error) {
		item, ok, err := r.next.GetTeamRating(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedRatingByTeam{value: item, exists: ok}, nil
	})
	if err != nil {
		return rating.TeamRating{}, false, err
	}
	cached, _ := value.(cachedRatingByTeam)
	return cached.value, cached.exists, nil
}

func (r *RatingRepository) ListTeamRatings(ctx context.Context, season string) ([]rating.TeamRating, error) {
	value, err := r.cache.GetOrLoad(ctx, "rating:list:"+season, func(ctx context.Context) (any, error) {
		return r.next.ListTeamRatings(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	items, _ := value.([]rating.TeamRating)
	return append([]rating.TeamRating(nil), items...), nil
}

func (r *RatingRepository) AppendChanges(ctx context.Context, home, away rating.Change) error {
	if err := r.next.AppendChanges(ctx, home, away); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "rating:")
	return nil
}
