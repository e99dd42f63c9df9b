package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
)

// LedgerView is the slice of the rating store the fixture repository needs
// to answer "which fixtures still lack ledger entries".
type LedgerView interface {
	HasFixture(fixtureID string) bool
}

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
	ledger   LedgerView
}

func NewFixtureRepository(fixtures []fixture.Fixture, ledger LedgerView) *FixtureRepository {
	byID := make(map[string]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		byID[item.ID] = item
	}
	return &FixtureRepository{fixtures: byID, ledger: ledger}
}

func (r *FixtureRepository) ListBySeason(_ context.Context, season string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listSeasonLocked(season, false), nil
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[fixtureID]
	return item, ok, nil
}

func (r *FixtureRepository) ListUnprocessedBySeason(_ context.Context, season string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listSeasonLocked(season, true), nil
}

func (r *FixtureRepository) UpdateXG(_ context.Context, fixtureID string, update fixture.XGUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.fixtures[fixtureID]
	if !ok {
		return fixture.ErrNotFound
	}
	if update.HomeXG != nil {
		v := *update.HomeXG
		item.HomeXG = &v
	}
	if update.AwayXG != nil {
		v := *update.AwayXG
		item.AwayXG = &v
	}
	if update.Gameweek != nil {
		item.Gameweek = *update.Gameweek
	}
	r.fixtures[fixtureID] = item
	return nil
}

func (r *FixtureRepository) listSeasonLocked(season string, unprocessedOnly bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, item := range r.fixtures {
		if item.Season != season {
			continue
		}
		if unprocessedOnly && r.ledger != nil && r.ledger.HasFixture(item.ID) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
