package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{season}/teams", handler.ListTeamsBySeason)
	mux.HandleFunc("GET /v1/seasons/{season}/teams/{teamID}", handler.GetTeamBySeason)
	mux.HandleFunc("GET /v1/seasons/{season}/fixtures", handler.ListFixturesBySeason)
	mux.HandleFunc("GET /v1/seasons/{season}/difficulty", handler.GetGameweekDifficulty)
	mux.HandleFunc("GET /v1/seasons/{season}/difficulty/range", handler.GetRangeDifficulty)
	mux.HandleFunc("GET /v1/seasons/{season}/teams/{teamID}/difficulty", handler.GetTeamDifficulty)
	mux.HandleFunc("PATCH /v1/fixtures/{fixtureID}", handler.UpdateFixtureXG)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/recalculate-ratings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateRatingsJob)))
	mux.Handle("POST /v1/internal/jobs/sync-xg", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncXGJob)))
}
