package rating

// TeamRating holds a team's current offense and defense strength estimates.
// Offense reflects goal-scoring strength, defense reflects goal prevention.
// Ratings are unbounded real-valued signals that move with performance
// against expectation; the current value is always base rating plus the sum
// of all ledger entries for the team, in fixture chronological order.
type TeamRating struct {
	TeamID    string
	OffRating float64
	DefRating float64
}

// Apply returns the rating with one ledger entry folded in.
func (r TeamRating) Apply(change Change) TeamRating {
	r.OffRating += change.OffChange
	r.DefRating += change.DefChange
	return r
}

// Change is one immutable rating-ledger entry: the adjustment one fixture
// produced for one team. Entries are written exactly once per team per
// processed fixture and never mutated or deleted afterwards.
type Change struct {
	FixtureID string
	TeamID    string
	OffChange float64
	DefChange float64
}
