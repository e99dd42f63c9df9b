package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
	qb "github.com/openfooty/fixture-difficulty/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, season string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
		).
		OrderBy("gameweek", "kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by season query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures by season: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture by id: %w", err)
	}

	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) ListUnprocessedBySeason(ctx context.Context, season string) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("season", season),
			qb.IsNull("deleted_at"),
			qb.Expr("public_id NOT IN (SELECT DISTINCT fixture_public_id FROM rating_changes)"),
		).
		OrderBy("gameweek", "kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select unprocessed fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select unprocessed fixtures: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) UpdateXG(ctx context.Context, fixtureID string, update fixture.XGUpdate) error {
	builder := qb.Update("fixtures").Set("updated_at", time.Now().UTC())
	if update.HomeXG != nil {
		builder = builder.Set("home_xg", *update.HomeXG)
	}
	if update.AwayXG != nil {
		builder = builder.Set("away_xg", *update.AwayXG)
	}
	if update.Gameweek != nil {
		builder = builder.Set("gameweek", *update.Gameweek)
	}

	query, args, err := builder.
		Where(
			qb.Eq("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture xg query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture xg: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update fixture xg rows affected: %w", err)
	}
	if affected == 0 {
		return fixture.ErrNotFound
	}
	return nil
}

func fixturesFromRows(rows []fixtureTableModel) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:         row.PublicID,
		Season:     row.Season,
		Gameweek:   row.Gameweek,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		KickoffAt:  row.KickoffAt,
		HomeXG:     nullFloatToPtr(row.HomeXG),
		AwayXG:     nullFloatToPtr(row.AwayXG),
	}
}
