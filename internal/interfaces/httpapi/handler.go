package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/openfooty/fixture-difficulty/internal/domain/difficulty"
	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
	"github.com/openfooty/fixture-difficulty/internal/usecase"
)

type Handler struct {
	teamService       *usecase.TeamService
	fixtureService    *usecase.FixtureService
	difficultyService *usecase.DifficultyService
	ratingService     *usecase.RatingService
	ingestionService  *usecase.IngestionService
	currentSeason     string
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	fixtureService *usecase.FixtureService,
	difficultyService *usecase.DifficultyService,
	ratingService *usecase.RatingService,
	ingestionService *usecase.IngestionService,
	currentSeason string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:       teamService,
		fixtureService:    fixtureService,
		difficultyService: difficultyService,
		ratingService:     ratingService,
		ingestionService:  ingestionService,
		currentSeason:     strings.TrimSpace(currentSeason),
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeamsBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsBySeason")
	defer span.End()

	season := r.PathValue("season")
	rows, err := h.teamService.ListBySeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, teamToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeamBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamBySeason")
	defer span.End()

	season := strings.TrimSpace(r.PathValue("season"))
	teamID := r.PathValue("teamID")
	row, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if row.Team.Season != season {
		writeError(ctx, w, fmt.Errorf("%w: team=%s in season=%s", usecase.ErrNotFound, teamID, season))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(row))
}

func (h *Handler) ListFixturesBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesBySeason")
	defer span.End()

	season := r.PathValue("season")
	gameweek, err := optionalIntQuery(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.ListBySeason(ctx, season, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, fx := range fixtures {
		items = append(items, fixtureToDTO(fx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateFixtureXG(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFixtureXG")
	defer span.End()

	fixtureID := strings.TrimSpace(r.PathValue("fixtureID"))

	var req fixtureXGUpdateRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(ctx, w, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fx, err := h.fixtureService.UpdateXG(ctx, fixtureID, fixture.XGUpdate{
		HomeXG:   req.HomeXG,
		AwayXG:   req.AwayXG,
		Gameweek: req.Gameweek,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update fixture xg failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}
	// The cached difficulty view holds the season's fixture list; a
	// rescheduled gameweek must not keep serving the old window.
	h.difficultyService.Invalidate(ctx, fx.Season)

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(fx))
}

func (h *Handler) GetGameweekDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekDifficulty")
	defer span.End()

	gameweek, err := requiredIntQuery(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveLeagueDifficulty(ctx, w, r, gameweek, gameweek)
}

func (h *Handler) GetRangeDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRangeDifficulty")
	defer span.End()

	start, err := requiredIntQuery(r, "start")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	end, err := requiredIntQuery(r, "end")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	h.serveLeagueDifficulty(ctx, w, r, start, end)
}

func (h *Handler) serveLeagueDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request, start, end int) {
	season := r.PathValue("season")
	orientation, policy, ascending, err := difficultyParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.difficultyService.LeagueWindow(ctx, usecase.DifficultyQuery{
		Season:      season,
		Start:       start,
		End:         end,
		Orientation: orientation,
		Policy:      policy,
		Ascending:   ascending,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "league difficulty failed", "season", season, "start", start, "end", end, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDifficultyDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, teamDifficultyDTO{
			TeamID: row.TeamID,
			Score:  roundScore(row.Score),
			Tier:   string(row.Tier),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDifficultyDTO{
		Season:      season,
		Start:       start,
		End:         end,
		Orientation: string(orientation),
		Policy:      string(policy),
		Teams:       items,
	})
}

func (h *Handler) GetTeamDifficulty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDifficulty")
	defer span.End()

	season := r.PathValue("season")
	teamID := r.PathValue("teamID")

	start, end, err := windowParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	orientation, _, _, err := difficultyParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.difficultyService.TeamWindow(ctx, season, teamID, start, end, orientation)
	if err != nil {
		h.logger.WarnContext(ctx, "team difficulty failed", "season", season, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamWindowDifficultyDTO{
		TeamID:      teamID,
		Season:      season,
		Start:       start,
		End:         end,
		Orientation: string(orientation),
		Score:       roundScore(result.Score),
		Tier:        string(result.Tier),
	})
}

func (h *Handler) RunRecalculateRatingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateRatingsJob")
	defer span.End()

	season, err := h.decodeJobSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ratingService.ProcessSeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate ratings job failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.difficultyService.Invalidate(ctx, season)

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunSyncXGJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncXGJob")
	defer span.End()

	season, err := h.decodeJobSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.ingestionService.SyncSeasonXG(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "sync xg job failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.difficultyService.Invalidate(ctx, season)

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) decodeJobSeason(r *http.Request) (string, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobRequest
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	season := strings.TrimSpace(req.Season)
	if season == "" {
		season = h.currentSeason
	}
	return season, nil
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func difficultyParams(r *http.Request) (difficulty.Orientation, difficulty.TierPolicy, bool, error) {
	orientation, ok := difficulty.ParseOrientation(r.URL.Query().Get("orientation"))
	if !ok {
		return "", "", false, fmt.Errorf("%w: orientation must be attack or defense", usecase.ErrInvalidInput)
	}
	policy, ok := difficulty.ParseTierPolicy(r.URL.Query().Get("policy"))
	if !ok {
		return "", "", false, fmt.Errorf("%w: policy must be absolute or percentile", usecase.ErrInvalidInput)
	}

	ascending := true
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))) {
	case "", "asc":
	case "desc":
		ascending = false
	default:
		return "", "", false, fmt.Errorf("%w: sort must be asc or desc", usecase.ErrInvalidInput)
	}

	return orientation, policy, ascending, nil
}

func windowParams(r *http.Request) (int, int, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("gameweek")); raw != "" {
		gameweek, err := requiredIntQuery(r, "gameweek")
		if err != nil {
			return 0, 0, err
		}
		return gameweek, gameweek, nil
	}

	start, err := requiredIntQuery(r, "start")
	if err != nil {
		return 0, 0, err
	}
	end, err := requiredIntQuery(r, "end")
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func requiredIntQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s query parameter is required", usecase.ErrInvalidInput, name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return &value, nil
}
