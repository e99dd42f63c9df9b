package httpapi

import (
	"math"
	"time"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/usecase"
)

type teamDTO struct {
	ID        string  `json:"id"`
	Season    string  `json:"season"`
	Name      string  `json:"name"`
	Short     string  `json:"short_name,omitempty"`
	OffRating float64 `json:"off_rating"`
	DefRating float64 `json:"def_rating"`
}

type fixtureDTO struct {
	ID         string   `json:"id"`
	Season     string   `json:"season"`
	Gameweek   int      `json:"gameweek"`
	HomeTeamID string   `json:"home_team_id"`
	AwayTeamID string   `json:"away_team_id"`
	KickoffAt  string   `json:"kickoff_at"`
	HomeXG     *float64 `json:"home_xg"`
	AwayXG     *float64 `json:"away_xg"`
}

type teamDifficultyDTO struct {
	TeamID string  `json:"team_id"`
	Score  float64 `json:"score"`
	Tier   string  `json:"tier"`
}

type leagueDifficultyDTO struct {
	Season      string              `json:"season"`
	Start       int                 `json:"start"`
	End         int                 `json:"end"`
	Orientation string              `json:"orientation"`
	Policy      string              `json:"policy"`
	Teams       []teamDifficultyDTO `json:"teams"`
}

type teamWindowDifficultyDTO struct {
	TeamID      string  `json:"team_id"`
	Season      string  `json:"season"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Orientation string  `json:"orientation"`
	Score       float64 `json:"score"`
	Tier        string  `json:"tier"`
}

type fixtureXGUpdateRequest struct {
	HomeXG   *float64 `json:"home_xg" validate:"omitempty,gte=0"`
	AwayXG   *float64 `json:"away_xg" validate:"omitempty,gte=0"`
	Gameweek *int     `json:"gameweek" validate:"omitempty,gte=1"`
}

type internalJobRequest struct {
	Season string `json:"season"`
}

func teamToDTO(row usecase.TeamWithRating) teamDTO {
	return teamDTO{
		ID:        row.Team.ID,
		Season:    row.Team.Season,
		Name:      row.Team.Name,
		Short:     row.Team.Short,
		OffRating: row.Rating.OffRating,
		DefRating: row.Rating.DefRating,
	}
}

func fixtureToDTO(fx fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         fx.ID,
		Season:     fx.Season,
		Gameweek:   fx.Gameweek,
		HomeTeamID: fx.HomeTeamID,
		AwayTeamID: fx.AwayTeamID,
		KickoffAt:  fx.KickoffAt.UTC().Format(time.RFC3339),
		HomeXG:     fx.HomeXG,
		AwayXG:     fx.AwayXG,
	}
}

func roundScore(value float64) float64 {
	return math.Round(value*1000) / 1000
}
