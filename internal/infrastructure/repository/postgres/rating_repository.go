package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/openfooty/fixture-difficulty/internal/domain/rating"
	qb "github.com/openfooty/fixture-difficulty/internal/platform/querybuilder"
)

const ratingAggregateColumns = "tr.team_public_id, " +
	"tr.off_rating + COALESCE(SUM(rc.off_change), 0) AS off_rating, " +
	"tr.def_rating + COALESCE(SUM(rc.def_change), 0) AS def_rating"

const ratingAggregateFrom = "team_ratings tr " +
	"LEFT JOIN rating_changes rc ON rc.team_public_id = tr.team_public_id"

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) GetTeamRating(ctx context.Context, teamID string) (rating.TeamRating, bool, error) {
	query, args, err := qb.Select(ratingAggregateColumns).From(ratingAggregateFrom).
		Where(
			qb.Eq("tr.team_public_id", teamID),
			qb.IsNull("tr.deleted_at"),
		).
		GroupBy("tr.team_public_id", "tr.off_rating", "tr.def_rating").
		ToSQL()
	if err != nil {
		return rating.TeamRating{}, false, fmt.Errorf("build select team rating query: %w", err)
	}

	var row teamRatingRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.TeamRating{}, false, nil
		}
		return rating.TeamRating{}, false, fmt.Errorf("select team rating: %w", err)
	}

	return ratingFromRow(row), true, nil
}

func (r *RatingRepository) ListTeamRatings(ctx context.Context, season string) ([]rating.TeamRating, error) {
	query, args, err := qb.Select(ratingAggregateColumns).From(ratingAggregateFrom).
		Where(
			qb.Eq("tr.season", season),
			qb.IsNull("tr.deleted_at"),
		).
		GroupBy("tr.team_public_id", "tr.off_rating", "tr.def_rating").
		OrderBy("tr.team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season ratings query: %w", err)
	}

	var rows []teamRatingRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season ratings: %w", err)
	}

	out := make([]rating.TeamRating, 0, len(rows))
	for _, row := range rows {
		out = append(out, ratingFromRow(row))
	}
	return out, nil
}

// AppendChanges writes both halves of a fixture's rating swing inside one
// transaction. A unique violation on (fixture_public_id, team_public_id)
// means the fixture was already processed.
func (r *RatingRepository) AppendChanges(ctx context.Context, home, away rating.Change) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx append rating changes: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, change := range []rating.Change{home, away} {
		insertModel := ratingChangeInsertModel{
			FixtureID: change.FixtureID,
			TeamID:    change.TeamID,
			OffChange: change.OffChange,
			DefChange: change.DefChange,
		}

		query, args, err := qb.InsertModel("rating_changes", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert rating change query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert rating change fixture_id=%s team_id=%s: %w",
					change.FixtureID, change.TeamID, rating.ErrDuplicateChange)
			}
			return fmt.Errorf("insert rating change fixture_id=%s team_id=%s: %w",
				change.FixtureID, change.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append rating changes tx: %w", err)
	}
	return nil
}

func ratingFromRow(row teamRatingRowModel) rating.TeamRating {
	return rating.TeamRating{
		TeamID:    row.TeamID,
		OffRating: row.OffRating,
		DefRating: row.DefRating,
	}
}
