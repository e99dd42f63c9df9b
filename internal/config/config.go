package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openfooty/fixture-difficulty/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	// DBURL empty selects the seeded in-memory stores, useful for local
	// development without a database.
	DBURL                   string
	DBDisablePreparedBinary bool

	CurrentSeason string

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	XGFeedEnabled               bool
	XGFeedBaseURL               string
	XGFeedToken                 string
	XGFeedTimeout               time.Duration
	XGFeedMaxRetries            int
	XGFeedCircuitEnabled        bool
	XGFeedCircuitFailureCount   int
	XGFeedCircuitOpenTimeout    time.Duration
	XGFeedCircuitHalfOpenMaxReq int

	InternalJobToken string

	RatingKFactor       float64
	RatingAttackScale   float64
	DifficultySteepness float64
	SyncWorkerCount     int

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	xgFeedEnabled, err := strconv.ParseBool(getEnv("XG_FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_ENABLED: %w", err)
	}
	xgFeedBaseURL := strings.TrimSpace(getEnv("XG_FEED_BASE_URL", ""))
	xgFeedToken := strings.TrimSpace(getEnv("XG_FEED_TOKEN", ""))
	if xgFeedEnabled {
		if xgFeedBaseURL == "" {
			return Config{}, fmt.Errorf("XG_FEED_BASE_URL is required when XG_FEED_ENABLED=true")
		}
		if xgFeedToken == "" {
			return Config{}, fmt.Errorf("XG_FEED_TOKEN is required when XG_FEED_ENABLED=true")
		}
	}
	xgFeedTimeout, err := time.ParseDuration(getEnv("XG_FEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_TIMEOUT: %w", err)
	}
	if xgFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("XG_FEED_TIMEOUT must be > 0")
	}
	xgFeedMaxRetries, err := getEnvAsInt("XG_FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_MAX_RETRIES: %w", err)
	}
	if xgFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("XG_FEED_MAX_RETRIES must be >= 0")
	}
	xgFeedCircuitEnabled, err := strconv.ParseBool(getEnv("XG_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_CIRCUIT_ENABLED: %w", err)
	}
	xgFeedCircuitFailureCount, err := getEnvAsInt("XG_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if xgFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("XG_FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	xgFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("XG_FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if xgFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("XG_FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	xgFeedCircuitHalfOpenMaxReq, err := getEnvAsInt("XG_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse XG_FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if xgFeedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("XG_FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	ratingKFactor, err := getEnvAsFloat("RATING_K_FACTOR", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATING_K_FACTOR: %w", err)
	}
	if ratingKFactor <= 0 {
		return Config{}, fmt.Errorf("RATING_K_FACTOR must be > 0")
	}
	ratingAttackScale, err := getEnvAsFloat("RATING_ATTACK_SCALE", 0.3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATING_ATTACK_SCALE: %w", err)
	}
	if ratingAttackScale <= 0 {
		return Config{}, fmt.Errorf("RATING_ATTACK_SCALE must be > 0")
	}
	difficultySteepness, err := getEnvAsFloat("DIFFICULTY_STEEPNESS", 0.01)
	if err != nil {
		return Config{}, fmt.Errorf("parse DIFFICULTY_STEEPNESS: %w", err)
	}
	if difficultySteepness <= 0 {
		return Config{}, fmt.Errorf("DIFFICULTY_STEEPNESS must be > 0")
	}

	syncWorkerCount, err := getEnvAsInt("SYNC_WORKER_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKER_COUNT: %w", err)
	}
	if syncWorkerCount < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKER_COUNT must be >= 1")
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "fixture-difficulty-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                       strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:     dbDisablePreparedBinary,
		CurrentSeason:               strings.TrimSpace(getEnv("APP_CURRENT_SEASON", "2025-26")),
		CacheEnabled:                cacheEnabled,
		CacheTTL:                    cacheTTL,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                 readTimeout,
		WriteTimeout:                writeTimeout,
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		XGFeedEnabled:               xgFeedEnabled,
		XGFeedBaseURL:               xgFeedBaseURL,
		XGFeedToken:                 xgFeedToken,
		XGFeedTimeout:               xgFeedTimeout,
		XGFeedMaxRetries:            xgFeedMaxRetries,
		XGFeedCircuitEnabled:        xgFeedCircuitEnabled,
		XGFeedCircuitFailureCount:   xgFeedCircuitFailureCount,
		XGFeedCircuitOpenTimeout:    xgFeedCircuitOpenTimeout,
		XGFeedCircuitHalfOpenMaxReq: xgFeedCircuitHalfOpenMaxReq,
		InternalJobToken:            strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		RatingKFactor:               ratingKFactor,
		RatingAttackScale:           ratingAttackScale,
		DifficultySteepness:         difficultySteepness,
		SyncWorkerCount:             syncWorkerCount,
		LogLevel:                    logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	if cfg.CurrentSeason == "" {
		return Config{}, fmt.Errorf("APP_CURRENT_SEASON cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
