package difficulty

import (
	"math"
	"sort"

	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
)

// DefaultSteepness is the logistic slope applied to matchup differentials.
// Rating gaps live on a scale of tens to hundreds, so a small slope keeps
// the squashed scores away from the saturated ends of the curve.
const DefaultSteepness = 0.01

// Absolute tier thresholds. Both boundaries are exclusive: a score of
// exactly 0.66 is medium and exactly 0.33 is hard.
const (
	easyThreshold   = 0.66
	mediumThreshold = 0.33
)

// Model is a frozen difficulty view over one rating snapshot. It captures
// the per-team ratings and the league mean differential at construction
// time, so every score computed from the same model is mutually consistent.
// After ratings move, build a new model; an existing one never observes the
// change.
type Model struct {
	steepness  float64
	leagueMean float64
	ratings    map[string]rating.TeamRating
}

// NewModel freezes a rating snapshot into a scorer. The league mean is the
// average of off_rating minus def_rating across the snapshot; it is the
// zero point every matchup differential is measured against. A
// non-positive steepness falls back to DefaultSteepness.
func NewModel(ratings []rating.TeamRating, steepness float64) *Model {
	if steepness <= 0 {
		steepness = DefaultSteepness
	}

	m := &Model{
		steepness: steepness,
		ratings:   make(map[string]rating.TeamRating, len(ratings)),
	}

	var diffSum float64
	for _, r := range ratings {
		m.ratings[r.TeamID] = r
		diffSum += r.OffRating - r.DefRating
	}
	if n := float64(len(ratings)); n > 0 {
		m.leagueMean = diffSum / n
	}
	return m
}

// squash maps a matchup differential onto (0, 1) with a logistic curve
// centred on the league mean, so a league-average matchup scores 0.5
// regardless of the absolute rating scale. Higher means the team is
// expected to fare better than average, which reads as an easier matchup.
func (m *Model) squash(differential float64) float64 {
	return 1 / (1 + math.Exp(-m.steepness*(differential-m.leagueMean)))
}

// matchupScore is one opponent's contribution to a team's window. The
// attack orientation pits the team's offense against the opponent's
// defense; the defense orientation pits the team's defense against the
// opponent's offense.
func (m *Model) matchupScore(self rating.TeamRating, opp Opponent, orientation Orientation) (float64, bool) {
	r, ok := m.ratings[opp.TeamID]
	if !ok {
		return 0, false
	}
	if orientation == OrientationDefense {
		return m.squash(self.DefRating - r.OffRating), true
	}
	return m.squash(self.OffRating - r.DefRating), true
}

// Score combines a team's window of opponents into one difficulty score.
// Opponents with no rating are skipped rather than scored at a default. A
// team absent from the snapshot, or an empty window, including one emptied
// by skips, yields the invalid result.
func (m *Model) Score(teamID string, opponents []Opponent, orientation Orientation) Result {
	self, ok := m.ratings[teamID]
	if !ok {
		return Result{Score: 0, Tier: TierInvalid}
	}

	scores := make([]float64, 0, len(opponents))
	for _, opp := range opponents {
		s, ok := m.matchupScore(self, opp, orientation)
		if !ok {
			continue
		}
		scores = append(scores, s)
	}
	if len(scores) == 0 {
		return Result{Score: 0, Tier: TierInvalid}
	}

	score := Combine(scores)
	return Result{Score: score, Tier: classifyAbsolute(score)}
}

// Combine folds per-opponent scores with the complement product. The
// result is monotone in each input, never below the max input, and stays in
// [0, 1] whenever the inputs do.
func Combine(scores []float64) float64 {
	pass := 1.0
	for _, s := range scores {
		pass *= 1 - s
	}
	return 1 - pass
}

func classifyAbsolute(score float64) Tier {
	switch {
	case score > easyThreshold:
		return TierEasy
	case score > mediumThreshold:
		return TierMedium
	default:
		return TierHard
	}
}

// PercentileTiers classifies scores by league rank instead of the fixed
// thresholds: the top third of scores is easy, the middle third medium, the
// bottom third hard. The split is scale invariant, so rescaling every score
// by the same positive factor leaves the tiers unchanged. With a single
// team there is no distribution to rank against and the tier is medium.
func PercentileTiers(scores []TeamScore) map[string]Tier {
	tiers := make(map[string]Tier, len(scores))
	if len(scores) == 1 {
		tiers[scores[0].TeamID] = TierMedium
		return tiers
	}

	n := float64(len(scores) - 1)
	for _, entry := range scores {
		below := 0
		for _, other := range scores {
			if other.Score < entry.Score {
				below++
			}
		}
		percentile := float64(below) / n
		switch {
		case percentile >= 2.0/3.0:
			tiers[entry.TeamID] = TierEasy
		case percentile >= 1.0/3.0:
			tiers[entry.TeamID] = TierMedium
		default:
			tiers[entry.TeamID] = TierHard
		}
	}
	return tiers
}

// SortTeamScores orders a league table by score. The sort is stable so
// equal scores keep their incoming order, which repositories return sorted
// by team id.
func SortTeamScores(scores []TeamScore, ascending bool) {
	sort.SliceStable(scores, func(i, j int) bool {
		if ascending {
			return scores[i].Score < scores[j].Score
		}
		return scores[i].Score > scores[j].Score
	})
}
