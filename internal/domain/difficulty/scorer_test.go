package difficulty

import (
	"math"
	"testing"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
)

func testModel() *Model {
	return NewModel([]rating.TeamRating{
		{TeamID: "arsenal", OffRating: 1300, DefRating: 1250},
		{TeamID: "brentford", OffRating: 1050, DefRating: 1000},
		{TeamID: "chelsea", OffRating: 1150, DefRating: 1100},
		{TeamID: "derby", OffRating: 850, DefRating: 800},
	}, DefaultSteepness)
}

func TestModel_LeagueAverageMatchupScoresHalf(t *testing.T) {
	t.Parallel()

	m := NewModel([]rating.TeamRating{
		{TeamID: "a", OffRating: 1000, DefRating: 1000},
		{TeamID: "b", OffRating: 1000, DefRating: 1000},
	}, DefaultSteepness)

	res := m.Score("a", []Opponent{{TeamID: "b"}}, OrientationAttack)
	if math.Abs(res.Score-0.5) > 1e-9 {
		t.Fatalf("league-average matchup should score 0.5, got %v", res.Score)
	}
	if res.Tier != TierMedium {
		t.Fatalf("0.5 should classify medium, got %v", res.Tier)
	}
}

func TestModel_AttackingEliteDefenseIsHard(t *testing.T) {
	t.Parallel()

	m := NewModel([]rating.TeamRating{
		{TeamID: "self", OffRating: 1000, DefRating: 1000},
		{TeamID: "wall", OffRating: 700, DefRating: 1500},
	}, DefaultSteepness)

	// League mean of off-def is -400; the matchup differential is
	// 1000-1500 = -500, so the squashed score is 1/(1+e^1).
	res := m.Score("self", []Opponent{{TeamID: "wall"}}, OrientationAttack)
	want := 1 / (1 + math.Exp(1))
	if math.Abs(res.Score-want) > 1e-9 {
		t.Fatalf("attack score vs elite defense: got %v want %v", res.Score, want)
	}
	if res.Tier != TierHard {
		t.Fatalf("attacking an elite defense should be hard, got %v", res.Tier)
	}
}

func TestModel_ScoreDependsOnOwnRating(t *testing.T) {
	t.Parallel()

	m := NewModel([]rating.TeamRating{
		{TeamID: "strong", OffRating: 1300, DefRating: 1000},
		{TeamID: "weak", OffRating: 900, DefRating: 1000},
		{TeamID: "opponent", OffRating: 1000, DefRating: 1000},
	}, DefaultSteepness)

	window := []Opponent{{TeamID: "opponent"}}
	strong := m.Score("strong", window, OrientationAttack)
	weak := m.Score("weak", window, OrientationAttack)
	if strong.Score <= weak.Score {
		t.Fatalf("the better attack should find the same opponent easier: strong=%v weak=%v", strong.Score, weak.Score)
	}
}

func TestModel_OrientationPicksOpposingSide(t *testing.T) {
	t.Parallel()

	// Lopsided opponent: elite defense, weak offense. Attacking into the
	// defense is hard, defending against the offense is easy.
	m := NewModel([]rating.TeamRating{
		{TeamID: "self", OffRating: 1000, DefRating: 1000},
		{TeamID: "wall", OffRating: 700, DefRating: 1400},
	}, DefaultSteepness)

	attack := m.Score("self", []Opponent{{TeamID: "wall"}}, OrientationAttack)
	defense := m.Score("self", []Opponent{{TeamID: "wall"}}, OrientationDefense)

	if attack.Score >= defense.Score {
		t.Fatalf("attacking an elite defense should score lower than defending a weak offense: attack=%v defense=%v", attack.Score, defense.Score)
	}
}

func TestModel_UnratedTeamIsInvalid(t *testing.T) {
	t.Parallel()

	res := testModel().Score("ghost", []Opponent{{TeamID: "arsenal"}}, OrientationAttack)
	if res.Tier != TierInvalid || res.Score != 0 {
		t.Fatalf("unrated team must score invalid, got %+v", res)
	}
}

func TestModel_EmptyWindowIsInvalid(t *testing.T) {
	t.Parallel()

	res := testModel().Score("arsenal", nil, OrientationAttack)
	if res.Tier != TierInvalid || res.Score != 0 {
		t.Fatalf("empty window must be invalid with score 0, got %+v", res)
	}

	// A window containing only unrated opponents degrades to empty.
	res = testModel().Score("arsenal", []Opponent{{TeamID: "ghost"}}, OrientationAttack)
	if res.Tier != TierInvalid {
		t.Fatalf("window of unrated opponents must be invalid, got %+v", res)
	}
}

func TestModel_ScoreStaysInUnitInterval(t *testing.T) {
	t.Parallel()

	m := testModel()
	opponents := []Opponent{
		{TeamID: "arsenal"}, {TeamID: "brentford"},
		{TeamID: "chelsea"}, {TeamID: "derby"},
	}
	for _, orientation := range []Orientation{OrientationAttack, OrientationDefense} {
		res := m.Score("chelsea", opponents, orientation)
		if res.Score < 0 || res.Score > 1 {
			t.Fatalf("%s score out of [0,1]: %v", orientation, res.Score)
		}
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()

	if got := Combine([]float64{0.5, 0.5}); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("combine(0.5, 0.5): got %v want 0.75", got)
	}
	if got := Combine([]float64{0.2}); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("single opponent must pass through: got %v", got)
	}

	// Adding an opponent never lowers the combined score.
	base := Combine([]float64{0.4, 0.6})
	grown := Combine([]float64{0.4, 0.6, 0.1})
	if grown < base {
		t.Fatalf("combine must be monotone: %v -> %v", base, grown)
	}
}

func TestClassifyAbsolute_ExclusiveBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  Tier
	}{
		{0.67, TierEasy},
		{0.66, TierMedium},
		{0.34, TierMedium},
		{0.33, TierHard},
		{0.0, TierHard},
		{1.0, TierEasy},
	}
	for _, tc := range cases {
		if got := classifyAbsolute(tc.score); got != tc.want {
			t.Fatalf("classify(%v): got %v want %v", tc.score, got, tc.want)
		}
	}
}

func TestPercentileTiers(t *testing.T) {
	t.Parallel()

	scores := []TeamScore{
		{TeamID: "a", Score: 0.1},
		{TeamID: "b", Score: 0.3},
		{TeamID: "c", Score: 0.5},
		{TeamID: "d", Score: 0.7},
		{TeamID: "e", Score: 0.9},
	}
	tiers := PercentileTiers(scores)

	want := map[string]Tier{
		"a": TierHard,
		"b": TierHard,
		"c": TierMedium,
		"d": TierEasy,
		"e": TierEasy,
	}
	for teamID, tier := range want {
		if tiers[teamID] != tier {
			t.Fatalf("team %s: got %v want %v", teamID, tiers[teamID], tier)
		}
	}
}

func TestPercentileTiers_ScaleInvariant(t *testing.T) {
	t.Parallel()

	scores := []TeamScore{
		{TeamID: "a", Score: 0.12},
		{TeamID: "b", Score: 0.44},
		{TeamID: "c", Score: 0.58},
		{TeamID: "d", Score: 0.91},
	}
	scaled := make([]TeamScore, len(scores))
	for i, s := range scores {
		scaled[i] = TeamScore{TeamID: s.TeamID, Score: s.Score * 0.25}
	}

	original := PercentileTiers(scores)
	rescaled := PercentileTiers(scaled)
	for teamID, tier := range original {
		if rescaled[teamID] != tier {
			t.Fatalf("team %s tier changed under scaling: %v -> %v", teamID, tier, rescaled[teamID])
		}
	}
}

func TestPercentileTiers_SingleTeam(t *testing.T) {
	t.Parallel()

	tiers := PercentileTiers([]TeamScore{{TeamID: "solo", Score: 0.8}})
	if tiers["solo"] != TierMedium {
		t.Fatalf("single team has no distribution, want medium, got %v", tiers["solo"])
	}
}

func TestSortTeamScores_StableBothDirections(t *testing.T) {
	t.Parallel()

	scores := []TeamScore{
		{TeamID: "a", Score: 0.5},
		{TeamID: "b", Score: 0.2},
		{TeamID: "c", Score: 0.5},
		{TeamID: "d", Score: 0.8},
	}

	asc := append([]TeamScore(nil), scores...)
	SortTeamScores(asc, true)
	if asc[0].TeamID != "b" || asc[3].TeamID != "d" {
		t.Fatalf("ascending order wrong: %+v", asc)
	}
	if asc[1].TeamID != "a" || asc[2].TeamID != "c" {
		t.Fatalf("ties must keep incoming order: %+v", asc)
	}

	desc := append([]TeamScore(nil), scores...)
	SortTeamScores(desc, false)
	if desc[0].TeamID != "d" || desc[3].TeamID != "b" {
		t.Fatalf("descending order wrong: %+v", desc)
	}
	if desc[1].TeamID != "a" || desc[2].TeamID != "c" {
		t.Fatalf("ties must keep incoming order: %+v", desc)
	}
}

func TestOpponentsInRange(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		{ID: "fx1", Gameweek: 1, HomeTeamID: "a", AwayTeamID: "b"},
		{ID: "fx2", Gameweek: 2, HomeTeamID: "c", AwayTeamID: "a"},
		{ID: "fx3", Gameweek: 2, HomeTeamID: "a", AwayTeamID: "d"},
		{ID: "fx4", Gameweek: 3, HomeTeamID: "b", AwayTeamID: "c"},
	}

	// Double gameweek: team a plays twice in week 2.
	week2 := OpponentsInWeek(fixtures, "a", 2)
	if len(week2) != 2 {
		t.Fatalf("double gameweek should yield 2 opponents, got %+v", week2)
	}
	if week2[0].TeamID != "c" || week2[0].Home {
		t.Fatalf("first opponent should be c away, got %+v", week2[0])
	}
	if week2[1].TeamID != "d" || !week2[1].Home {
		t.Fatalf("second opponent should be d at home, got %+v", week2[1])
	}

	// Blank gameweek for team d.
	if got := OpponentsInWeek(fixtures, "d", 3); len(got) != 0 {
		t.Fatalf("blank gameweek should be empty, got %+v", got)
	}

	// Inclusive range.
	all := OpponentsInRange(fixtures, "a", 1, 3)
	if len(all) != 3 {
		t.Fatalf("range 1-3 should yield 3 opponents for a, got %+v", all)
	}
}
