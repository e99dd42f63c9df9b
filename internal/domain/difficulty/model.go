package difficulty

import "strings"

// Tier is the coarse classification of a difficulty score.
type Tier string

const (
	TierEasy    Tier = "easy"
	TierMedium  Tier = "medium"
	TierHard    Tier = "hard"
	TierInvalid Tier = "invalid"
)

// Orientation selects which side of a team's game is being scored.
type Orientation string

const (
	OrientationAttack  Orientation = "attack"
	OrientationDefense Orientation = "defense"
)

func ParseOrientation(value string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(OrientationAttack), "off", "offense":
		return OrientationAttack, true
	case string(OrientationDefense), "def":
		return OrientationDefense, true
	default:
		return "", false
	}
}

// TierPolicy selects how a raw score is classified: against fixed
// thresholds, or against the rest of the league for the same window.
type TierPolicy string

const (
	TierPolicyAbsolute   TierPolicy = "absolute"
	TierPolicyPercentile TierPolicy = "percentile"
)

func ParseTierPolicy(value string) (TierPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(TierPolicyAbsolute):
		return TierPolicyAbsolute, true
	case string(TierPolicyPercentile):
		return TierPolicyPercentile, true
	default:
		return "", false
	}
}

// Opponent is one opposing side a team faces inside a window, derived from
// the fixture list and never persisted.
type Opponent struct {
	TeamID string
	Home   bool
}

// Result is a scored window for one team. Score 0 with TierInvalid means
// "no fixture in the window", which callers must render distinctly from a
// genuinely easy near-zero matchup: branch on the tier, not the score.
type Result struct {
	Score float64
	Tier  Tier
}

// TeamScore pairs a team with its raw window score, used for league-wide
// ranking and percentile classification.
type TeamScore struct {
	TeamID string
	Score  float64
}
