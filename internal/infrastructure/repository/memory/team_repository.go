package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfooty/fixture-difficulty/internal/domain/team"
)

type TeamRepository struct {
	mu            sync.RWMutex
	teamsBySeason map[string][]team.Team
	teamsByID     map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	teamsBySeason := make(map[string][]team.Team)
	teamsByID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		teamsBySeason[item.Season] = append(teamsBySeason[item.Season], item)
		teamsByID[item.ID] = item
	}
	for season := range teamsBySeason {
		items := teamsBySeason[season]
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	}

	return &TeamRepository{
		teamsBySeason: teamsBySeason,
		teamsByID:     teamsByID,
	}
}

func (r *TeamRepository) ListBySeason(_ context.Context, season string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.teamsBySeason[season]
	out := make([]team.Team, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teamsByID[teamID]
	return item, ok, nil
}
