package memory

import (
	"time"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/domain/team"
)

// SeedSeason is the season the demo dataset belongs to.
const SeedSeason = "2025-26"

// Stores bundles the in-memory repositories built from one dataset.
type Stores struct {
	Teams    *TeamRepository
	Fixtures *FixtureRepository
	Ratings  *RatingRepository
}

// NewSeededStores builds in-memory repositories pre-loaded with a small demo
// league. The first two gameweeks carry observed xG so rating recalculation
// has something to chew on; the later ones are still waiting for results.
func NewSeededStores() *Stores {
	teams := seedTeams()
	ratings := NewRatingRepository(seedRatings(), map[string][]string{
		SeedSeason: {"arsenal", "brentford", "chelsea", "derby", "everton", "fulham"},
	})
	fixtures := NewFixtureRepository(seedFixtures(), ratings)

	return &Stores{
		Teams:    NewTeamRepository(teams),
		Fixtures: fixtures,
		Ratings:  ratings,
	}
}

func seedTeams() []team.Team {
	return []team.Team{
		{ID: "arsenal", Season: SeedSeason, Name: "Arsenal", Short: "ARS"},
		{ID: "brentford", Season: SeedSeason, Name: "Brentford", Short: "BRE"},
		{ID: "chelsea", Season: SeedSeason, Name: "Chelsea", Short: "CHE"},
		{ID: "derby", Season: SeedSeason, Name: "Derby County", Short: "DER"},
		{ID: "everton", Season: SeedSeason, Name: "Everton", Short: "EVE"},
		{ID: "fulham", Season: SeedSeason, Name: "Fulham", Short: "FUL"},
	}
}

func seedRatings() map[string]rating.TeamRating {
	return map[string]rating.TeamRating{
		"arsenal":   {TeamID: "arsenal", OffRating: 1300, DefRating: 1250},
		"brentford": {TeamID: "brentford", OffRating: 1100, DefRating: 1080},
		"chelsea":   {TeamID: "chelsea", OffRating: 1220, DefRating: 1180},
		"derby":     {TeamID: "derby", OffRating: 950, DefRating: 920},
		"everton":   {TeamID: "everton", OffRating: 1050, DefRating: 1060},
		"fulham":    {TeamID: "fulham", OffRating: 1080, DefRating: 1040},
	}
}

func seedFixtures() []fixture.Fixture {
	kickoff := func(day, hour int) time.Time {
		return time.Date(2025, 8, day, hour, 0, 0, 0, time.UTC)
	}

	return []fixture.Fixture{
		{ID: "2025-26-gw1-ars-der", Season: SeedSeason, Gameweek: 1, HomeTeamID: "arsenal", AwayTeamID: "derby", KickoffAt: kickoff(16, 12), HomeXG: xgValue(2.4), AwayXG: xgValue(0.5)},
		{ID: "2025-26-gw1-bre-che", Season: SeedSeason, Gameweek: 1, HomeTeamID: "brentford", AwayTeamID: "chelsea", KickoffAt: kickoff(16, 15), HomeXG: xgValue(1.1), AwayXG: xgValue(1.6)},
		{ID: "2025-26-gw1-eve-ful", Season: SeedSeason, Gameweek: 1, HomeTeamID: "everton", AwayTeamID: "fulham", KickoffAt: kickoff(17, 14), HomeXG: xgValue(1.3), AwayXG: xgValue(1.2)},
		{ID: "2025-26-gw2-che-ars", Season: SeedSeason, Gameweek: 2, HomeTeamID: "chelsea", AwayTeamID: "arsenal", KickoffAt: kickoff(23, 12), HomeXG: xgValue(1.5), AwayXG: xgValue(1.8)},
		{ID: "2025-26-gw2-der-eve", Season: SeedSeason, Gameweek: 2, HomeTeamID: "derby", AwayTeamID: "everton", KickoffAt: kickoff(23, 15), HomeXG: xgValue(0.8), AwayXG: xgValue(1.4)},
		{ID: "2025-26-gw2-ful-bre", Season: SeedSeason, Gameweek: 2, HomeTeamID: "fulham", AwayTeamID: "brentford", KickoffAt: kickoff(24, 14), HomeXG: xgValue(1.0), AwayXG: xgValue(1.0)},
		{ID: "2025-26-gw3-ars-bre", Season: SeedSeason, Gameweek: 3, HomeTeamID: "arsenal", AwayTeamID: "brentford", KickoffAt: kickoff(30, 12)},
		{ID: "2025-26-gw3-eve-che", Season: SeedSeason, Gameweek: 3, HomeTeamID: "everton", AwayTeamID: "chelsea", KickoffAt: kickoff(30, 15)},
		{ID: "2025-26-gw3-der-ful", Season: SeedSeason, Gameweek: 3, HomeTeamID: "derby", AwayTeamID: "fulham", KickoffAt: kickoff(31, 14)},
	}
}

func xgValue(v float64) *float64 {
	return &v
}
