package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/openfooty/fixture-difficulty/internal/platform/querybuilder"
)

// CurrentSeasonKey is the app_config row holding the season the service
// operates on by default. When present it overrides the env default.
const CurrentSeasonKey = "current_season"

type AppConfigRepository struct {
	db *sqlx.DB
}

func NewAppConfigRepository(db *sqlx.DB) *AppConfigRepository {
	return &AppConfigRepository{db: db}
}

func (r *AppConfigRepository) GetValue(ctx context.Context, key string) (string, bool, error) {
	query, args, err := qb.Select("value").From("app_config").
		Where(qb.Eq("key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select app config query: %w", err)
	}

	var value string
	if err := r.db.GetContext(ctx, &value, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select app config key=%s: %w", key, err)
	}

	return value, true, nil
}
