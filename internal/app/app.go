package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/openfooty/fixture-difficulty/external/xgfeed"
	"github.com/openfooty/fixture-difficulty/internal/config"
	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	"github.com/openfooty/fixture-difficulty/internal/domain/team"
	cacherepo "github.com/openfooty/fixture-difficulty/internal/infrastructure/repository/cache"
	"github.com/openfooty/fixture-difficulty/internal/infrastructure/repository/memory"
	"github.com/openfooty/fixture-difficulty/internal/infrastructure/repository/postgres"
	"github.com/openfooty/fixture-difficulty/internal/interfaces/httpapi"
	basecache "github.com/openfooty/fixture-difficulty/internal/platform/cache"
	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
	"github.com/openfooty/fixture-difficulty/internal/platform/resilience"
	"github.com/openfooty/fixture-difficulty/internal/usecase"
)

// Components bundles everything a process entrypoint needs. DB is nil when
// the service runs on the seeded in-memory stores.
type Components struct {
	Server        *http.Server
	RatingService *usecase.RatingService
	DB            *sqlx.DB
}

func BuildComponents(cfg config.Config, logger *logging.Logger) (*Components, error) {
	if logger == nil {
		logger = logging.Default()
	}

	teamRepo, fixtureRepo, ratingRepo, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	currentSeason := cfg.CurrentSeason
	if db != nil {
		if stored, ok, err := postgres.NewAppConfigRepository(db).GetValue(context.Background(), postgres.CurrentSeasonKey); err != nil {
			logger.Warn("read current season from app_config failed", "error", err)
		} else if ok && stored != "" {
			currentSeason = stored
		}
	}

	var store *basecache.Store
	if cfg.CacheEnabled {
		store = basecache.NewStore(cfg.CacheTTL)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, store)
		fixtureRepo = cacherepo.NewFixtureRepository(fixtureRepo, store)
		ratingRepo = cacherepo.NewRatingRepository(ratingRepo, store)
	}

	var provider usecase.XGProvider
	if cfg.XGFeedEnabled {
		provider = xgfeed.NewClient(xgfeed.ClientConfig{
			BaseURL:    cfg.XGFeedBaseURL,
			Token:      cfg.XGFeedToken,
			Timeout:    cfg.XGFeedTimeout,
			MaxRetries: cfg.XGFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.XGFeedCircuitEnabled,
				FailureThreshold: cfg.XGFeedCircuitFailureCount,
				OpenTimeout:      cfg.XGFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.XGFeedCircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Info("xg feed disabled", "reason", "XG_FEED_ENABLED=false")
	}

	teamSvc := usecase.NewTeamService(teamRepo, ratingRepo)
	fixtureSvc := usecase.NewFixtureService(fixtureRepo)
	difficultySvc := usecase.NewDifficultyService(teamRepo, fixtureRepo, ratingRepo, cfg.DifficultySteepness, store)
	ratingSvc := usecase.NewRatingService(fixtureRepo, ratingRepo, rating.Params{
		KFactor:     cfg.RatingKFactor,
		AttackScale: cfg.RatingAttackScale,
	}, logger)
	ingestionSvc := usecase.NewIngestionService(provider, fixtureRepo, cfg.SyncWorkerCount, logger)

	handler := httpapi.NewHandler(teamSvc, fixtureSvc, difficultySvc, ratingSvc, ingestionSvc, currentSeason, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &Components{
		Server:        server,
		RatingService: ratingSvc,
		DB:            db,
	}, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (team.Repository, fixture.Repository, rating.Repository, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("using seeded in-memory stores", "reason", "DB_URL empty", "season", memory.SeedSeason)
		stores := memory.NewSeededStores()
		return stores.Teams, stores.Fixtures, stores.Ratings, nil, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	return postgres.NewTeamRepository(db), postgres.NewFixtureRepository(db), postgres.NewRatingRepository(db), db, nil
}
