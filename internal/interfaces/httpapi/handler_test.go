package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/infrastructure/repository/memory"
	"github.com/openfooty/fixture-difficulty/internal/platform/cache"
	"github.com/openfooty/fixture-difficulty/internal/usecase"
)

const testInternalJobToken = "test-job-token"

type stubXGProvider struct {
	readings []usecase.ExternalFixtureXG
	err      error
}

func (s *stubXGProvider) FetchSeasonXG(_ context.Context, _ string) ([]usecase.ExternalFixtureXG, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.readings, nil
}

func newTestRouter(t *testing.T, provider usecase.XGProvider) http.Handler {
	t.Helper()
	return newTestRouterWithCache(t, provider, nil)
}

func newTestRouterWithCache(t *testing.T, provider usecase.XGProvider, store *cache.Store) http.Handler {
	t.Helper()

	if provider == nil {
		provider = &stubXGProvider{}
	}

	stores := memory.NewSeededStores()
	teamService := usecase.NewTeamService(stores.Teams, stores.Ratings)
	fixtureService := usecase.NewFixtureService(stores.Fixtures)
	difficultyService := usecase.NewDifficultyService(stores.Teams, stores.Fixtures, stores.Ratings, 0.01, store)
	ratingService := usecase.NewRatingService(stores.Fixtures, stores.Ratings, rating.DefaultParams(), nil)
	ingestionService := usecase.NewIngestionService(provider, stores.Fixtures, 2, nil)

	handler := NewHandler(teamService, fixtureService, difficultyService, ratingService, ingestionService, memory.SeedSeason, nil)
	return NewRouter(handler, nil, []string{"*"}, testInternalJobToken)
}

func decodeDataBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response, got %v", body)
	}
	return data
}

func decodeDataList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array in response, got %v", body)
	}
	return data
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestHandler_ListTeamsBySeason(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/teams", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	teams := decodeDataList(t, rec)
	if len(teams) != 6 {
		t.Fatalf("expected 6 teams, got %d", len(teams))
	}
	first, ok := teams[0].(map[string]any)
	if !ok {
		t.Fatalf("expected team object, got %v", teams[0])
	}
	if got, _ := first["id"].(string); got != "arsenal" {
		t.Fatalf("expected first team arsenal, got %v", first["id"])
	}
	if _, ok := first["off_rating"]; !ok {
		t.Fatalf("expected off_rating on team payload")
	}
}

func TestHandler_GetTeamBySeason_WrongSeason(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/1999-00/teams/arsenal", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_ListFixturesBySeason_GameweekFilter(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/fixtures?gameweek=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	fixtures := decodeDataList(t, rec)
	if len(fixtures) != 3 {
		t.Fatalf("expected 3 gameweek-2 fixtures, got %d", len(fixtures))
	}
	for _, raw := range fixtures {
		fx, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("expected fixture object, got %v", raw)
		}
		if gw, _ := fx["gameweek"].(float64); gw != 2 {
			t.Fatalf("expected gameweek 2, got %v", fx["gameweek"])
		}
	}
}

func TestHandler_ListFixturesBySeason_BadGameweek(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/fixtures?gameweek=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_UpdateFixtureXG(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := `{"home_xg": 2.1, "away_xg": 0.9}`
	req := httptest.NewRequest(http.MethodPatch, "/v1/fixtures/2025-26-gw3-ars-bre", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	if got, _ := data["home_xg"].(float64); got != 2.1 {
		t.Fatalf("expected home_xg 2.1, got %v", data["home_xg"])
	}
	if got, _ := data["away_xg"].(float64); got != 0.9 {
		t.Fatalf("expected away_xg 0.9, got %v", data["away_xg"])
	}
}

func TestHandler_UpdateFixtureXG_NegativeValue(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := `{"home_xg": -0.5}`
	req := httptest.NewRequest(http.MethodPatch, "/v1/fixtures/2025-26-gw3-ars-bre", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_UpdateFixtureXG_UnknownFixture(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := `{"home_xg": 1.0, "away_xg": 1.0}`
	req := httptest.NewRequest(http.MethodPatch, "/v1/fixtures/no-such-fixture", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_UpdateFixtureXG_DropsCachedDifficulty(t *testing.T) {
	router := newTestRouterWithCache(t, nil, cache.NewStore(time.Minute))

	// Prime the cached season view with Arsenal's gameweek-3 window.
	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/teams/arsenal/difficulty?gameweek=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if tier, _ := decodeDataBody(t, rec)["tier"].(string); tier == "invalid" {
		t.Fatalf("expected a scored gameweek-3 window before the move, got %v", tier)
	}

	// Move Arsenal's only gameweek-3 fixture to gameweek 4.
	payload := `{"gameweek": 4}`
	req = httptest.NewRequest(http.MethodPatch, "/v1/fixtures/2025-26-gw3-ars-bre", strings.NewReader(payload))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The reschedule must be visible immediately, not after cache expiry.
	req = httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/teams/arsenal/difficulty?gameweek=3", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if tier, _ := decodeDataBody(t, rec)["tier"].(string); tier != "invalid" {
		t.Fatalf("expected blank window after reschedule, got tier %v", tier)
	}
}

func TestHandler_GetGameweekDifficulty(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/difficulty?gameweek=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	teams, ok := data["teams"].([]any)
	if !ok {
		t.Fatalf("expected teams array, got %v", data["teams"])
	}
	if len(teams) != 6 {
		t.Fatalf("expected 6 scored teams, got %d", len(teams))
	}
	for _, raw := range teams {
		row, ok := raw.(map[string]any)
		if !ok {
			t.Fatalf("expected team difficulty object, got %v", raw)
		}
		if tier, _ := row["tier"].(string); tier == "" || tier == "invalid" {
			t.Fatalf("expected a valid tier, got %v", row["tier"])
		}
	}
}

func TestHandler_GetGameweekDifficulty_MissingGameweek(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/difficulty", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_GetGameweekDifficulty_BadOrientation(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/difficulty?gameweek=1&orientation=sideways", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_GetRangeDifficulty(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/difficulty/range?start=1&end=3&policy=percentile&sort=desc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	if got, _ := data["policy"].(string); got != "percentile" {
		t.Fatalf("expected policy percentile, got %v", data["policy"])
	}

	teams, _ := data["teams"].([]any)
	if len(teams) != 6 {
		t.Fatalf("expected 6 scored teams, got %d", len(teams))
	}
	previous := 2.0
	for _, raw := range teams {
		row := raw.(map[string]any)
		score, _ := row["score"].(float64)
		if score > previous {
			t.Fatalf("expected descending scores, got %v after %v", score, previous)
		}
		previous = score
	}
}

func TestHandler_GetTeamDifficulty(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/teams/derby/difficulty?start=1&end=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	if got, _ := data["team_id"].(string); got != "derby" {
		t.Fatalf("expected team_id derby, got %v", data["team_id"])
	}
	if tier, _ := data["tier"].(string); tier == "" || tier == "invalid" {
		t.Fatalf("expected a valid tier, got %v", data["tier"])
	}
}

func TestHandler_GetTeamDifficulty_UnknownTeam(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/seasons/2025-26/teams/ghost/difficulty?gameweek=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_RunRecalculateRatingsJob(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-ratings", nil)
	req.Header.Set("X-Internal-Job-Token", testInternalJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	if got, _ := data["processed"].(float64); got != 6 {
		t.Fatalf("expected 6 processed fixtures, got %v", data["processed"])
	}
	if got, _ := data["skipped"].(float64); got != 3 {
		t.Fatalf("expected 3 skipped fixtures, got %v", data["skipped"])
	}

	// A second run must not double-apply: everything is already ledgered.
	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-ratings", nil)
	req.Header.Set("X-Internal-Job-Token", testInternalJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on rerun, got %d: %s", rec.Code, rec.Body.String())
	}
	data = decodeDataBody(t, rec)
	if got, _ := data["processed"].(float64); got != 0 {
		t.Fatalf("expected 0 processed fixtures on rerun, got %v", data["processed"])
	}
}

func TestHandler_RunRecalculateRatingsJob_NoToken(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-ratings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestHandler_RunSyncXGJob(t *testing.T) {
	provider := &stubXGProvider{
		readings: []usecase.ExternalFixtureXG{
			{FixtureID: "2025-26-gw3-ars-bre", HomeXG: xgPtr(1.7), AwayXG: xgPtr(0.8)},
			{FixtureID: "2025-26-gw3-eve-che", HomeXG: nil, AwayXG: xgPtr(1.1)},
		},
	}
	router := newTestRouter(t, provider)

	req := httptest.NewRequest(http.MethodPost, `/v1/internal/jobs/sync-xg`, strings.NewReader(`{"season":"2025-26"}`))
	req.Header.Set("X-Internal-Job-Token", testInternalJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeDataBody(t, rec)
	if got, _ := data["fetched"].(float64); got != 2 {
		t.Fatalf("expected 2 fetched readings, got %v", data["fetched"])
	}
	if got, _ := data["updated"].(float64); got != 1 {
		t.Fatalf("expected 1 updated fixture, got %v", data["updated"])
	}
}

func xgPtr(v float64) *float64 {
	return &v
}
