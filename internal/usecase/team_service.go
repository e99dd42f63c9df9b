package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/domain/team"
)

type TeamService struct {
	teamRepo   team.Repository
	ratingRepo rating.Repository
}

func NewTeamService(teamRepo team.Repository, ratingRepo rating.Repository) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		ratingRepo: ratingRepo,
	}
}

// TeamWithRating pairs a team with its current aggregated rating.
type TeamWithRating struct {
	Team   team.Team
	Rating rating.TeamRating
}

// ListBySeason returns a season's teams with their current ratings, in
// repository order (team id).
func (s *TeamService) ListBySeason(ctx context.Context, season string) ([]TeamWithRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListBySeason")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	ratings, err := s.ratingRepo.ListTeamRatings(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list team ratings: %w", err)
	}

	ratingByTeam := make(map[string]rating.TeamRating, len(ratings))
	for _, r := range ratings {
		ratingByTeam[r.TeamID] = r
	}

	out := make([]TeamWithRating, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamWithRating{
			Team:   t,
			Rating: ratingByTeam[t.ID],
		})
	}
	return out, nil
}

// GetByID resolves one team with its current rating.
func (s *TeamService) GetByID(ctx context.Context, teamID string) (TeamWithRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetByID")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamWithRating{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamWithRating{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamWithRating{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	r, _, err := s.ratingRepo.GetTeamRating(ctx, teamID)
	if err != nil {
		return TeamWithRating{}, fmt.Errorf("get team rating: %w", err)
	}

	return TeamWithRating{Team: t, Rating: r}, nil
}
