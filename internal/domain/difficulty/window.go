package difficulty

import "github.com/openfooty/fixture-difficulty/internal/domain/fixture"

// OpponentsInWeek lists the opposing sides a team faces in one gameweek.
// Blank gameweeks produce an empty slice; double gameweeks produce two
// entries. Fixture completion status is irrelevant here, scheduling alone
// defines the window.
func OpponentsInWeek(fixtures []fixture.Fixture, teamID string, gameweek int) []Opponent {
	return OpponentsInRange(fixtures, teamID, gameweek, gameweek)
}

// OpponentsInRange lists the opposing sides a team faces across an
// inclusive gameweek span, in the order the fixtures were given.
func OpponentsInRange(fixtures []fixture.Fixture, teamID string, start, end int) []Opponent {
	var opponents []Opponent
	for _, fx := range fixtures {
		if fx.Gameweek < start || fx.Gameweek > end {
			continue
		}
		switch teamID {
		case fx.HomeTeamID:
			opponents = append(opponents, Opponent{TeamID: fx.AwayTeamID, Home: true})
		case fx.AwayTeamID:
			opponents = append(opponents, Opponent{TeamID: fx.HomeTeamID, Home: false})
		}
	}
	return opponents
}
