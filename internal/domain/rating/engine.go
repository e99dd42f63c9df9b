package rating

// Calibration constants for the xG-driven rating update. The normalizer maps
// rating differentials (typically tens to hundreds) onto a plausible xG
// scale; the attack scale and K factor are tunable, the normalizer is fixed.
const (
	DefaultKFactor     = 20.0
	DefaultAttackScale = 0.3

	ratingNormalizer = 100.0
)

// Params tunes the rating update. Zero values fall back to the defaults.
type Params struct {
	KFactor     float64
	AttackScale float64
}

func DefaultParams() Params {
	return Params{
		KFactor:     DefaultKFactor,
		AttackScale: DefaultAttackScale,
	}
}

func (p Params) normalized() Params {
	if p.KFactor <= 0 {
		p.KFactor = DefaultKFactor
	}
	if p.AttackScale <= 0 {
		p.AttackScale = DefaultAttackScale
	}
	return p
}

// ExpectedXG returns the attacking output implied by the gap between an
// attack rating and the opposing defense rating.
func ExpectedXG(offRating, defRating float64, params Params) float64 {
	params = params.normalized()
	return (offRating - defRating) / ratingNormalizer * params.AttackScale
}

// ComputeChanges produces the pair of ledger entries for one completed
// fixture, given both teams' current ratings and the observed xG values.
//
// Each attacking observation moves two ratings by the same K-scaled surprise
// with opposite signs: scoring above expectation raises the attacker's
// offense and lowers the defender's defense. The two entries are not
// zero-sum overall since home and away attacks are independent observations.
// The transform is a pure function of its inputs; applying it twice for the
// same fixture doubles the shift, so callers must never re-submit a fixture
// already present in the ledger.
func ComputeChanges(fixtureID string, home, away TeamRating, homeXG, awayXG float64, params Params) (Change, Change) {
	params = params.normalized()

	homeSurprise := homeXG - ExpectedXG(home.OffRating, away.DefRating, params)
	awaySurprise := awayXG - ExpectedXG(away.OffRating, home.DefRating, params)

	homeChange := Change{
		FixtureID: fixtureID,
		TeamID:    home.TeamID,
		OffChange: params.KFactor * homeSurprise,
		DefChange: -params.KFactor * awaySurprise,
	}
	awayChange := Change{
		FixtureID: fixtureID,
		TeamID:    away.TeamID,
		OffChange: params.KFactor * awaySurprise,
		DefChange: -params.KFactor * homeSurprise,
	}

	return homeChange, awayChange
}
