package fixture

import "time"

// Fixture represents one scheduled match. Scheduling facts are immutable;
// the xG values are filled in after the match has been played.
type Fixture struct {
	ID         string
	Season     string
	Gameweek   int
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
	HomeXG     *float64
	AwayXG     *float64
}

// HasXG reports whether both sides of the fixture carry an observed xG
// value. Fixtures without both values are not eligible for rating updates.
func (f Fixture) HasXG() bool {
	return f.HomeXG != nil && f.AwayXG != nil
}

// Involves reports whether the given team plays in this fixture.
func (f Fixture) Involves(teamID string) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}
