package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
)

type RatingRepository struct {
	mu     sync.RWMutex
	base   map[string]rating.TeamRating
	season map[string][]string
	ledger []rating.Change
}

func NewRatingRepository(base map[string]rating.TeamRating, teamsBySeason map[string][]string) *RatingRepository {
	baseCopy := make(map[string]rating.TeamRating, len(base))
	for teamID, item := range base {
		baseCopy[teamID] = item
	}
	seasonCopy := make(map[string][]string, len(teamsBySeason))
	for season, teamIDs := range teamsBySeason {
		ids := append([]string(nil), teamIDs...)
		sort.Strings(ids)
		seasonCopy[season] = ids
	}
	return &RatingRepository{base: baseCopy, season: seasonCopy}
}

func (r *RatingRepository) GetTeamRating(_ context.Context, teamID string) (rating.TeamRating, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.base[teamID]
	if !ok {
		return rating.TeamRating{}, false, nil
	}
	return r.foldLedgerLocked(item), true, nil
}

func (r *RatingRepository) ListTeamRatings(_ context.Context, season string) ([]rating.TeamRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamIDs := r.season[season]
	out := make([]rating.TeamRating, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		item, ok := r.base[teamID]
		if !ok {
			continue
		}
		out = append(out, r.foldLedgerLocked(item))
	}
	return out, nil
}

// AppendChanges writes both halves of a fixture's rating swing or neither.
func (r *RatingRepository) AppendChanges(_ context.Context, home, away rating.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.ledger {
		if entry.FixtureID == home.FixtureID && entry.TeamID == home.TeamID {
			return rating.ErrDuplicateChange
		}
		if entry.FixtureID == away.FixtureID && entry.TeamID == away.TeamID {
			return rating.ErrDuplicateChange
		}
	}
	r.ledger = append(r.ledger, home, away)
	return nil
}

// HasFixture satisfies the fixture repository's LedgerView.
func (r *RatingRepository) HasFixture(fixtureID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.ledger {
		if entry.FixtureID == fixtureID {
			return true
		}
	}
	return false
}

func (r *RatingRepository) foldLedgerLocked(base rating.TeamRating) rating.TeamRating {
	out := base
	for _, entry := range r.ledger {
		if entry.TeamID != base.TeamID {
			continue
		}
		out = out.Apply(entry)
	}
	return out
}
