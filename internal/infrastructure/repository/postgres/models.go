package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Season    string         `db:"season"`
	Name      string         `db:"name"`
	ShortName sql.NullString `db:"short_name"`
	CreatedAt time.Time      `db:"created_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type fixtureTableModel struct {
	ID         int64           `db:"id"`
	PublicID   string          `db:"public_id"`
	Season     string          `db:"season"`
	Gameweek   int             `db:"gameweek"`
	HomeTeamID string          `db:"home_team_public_id"`
	AwayTeamID string          `db:"away_team_public_id"`
	KickoffAt  time.Time       `db:"kickoff_at"`
	HomeXG     sql.NullFloat64 `db:"home_xg"`
	AwayXG     sql.NullFloat64 `db:"away_xg"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  *time.Time      `db:"updated_at"`
	DeletedAt  *time.Time      `db:"deleted_at"`
}

type teamRatingRowModel struct {
	TeamID    string  `db:"team_public_id"`
	OffRating float64 `db:"off_rating"`
	DefRating float64 `db:"def_rating"`
}

type ratingChangeInsertModel struct {
	FixtureID string  `db:"fixture_public_id"`
	TeamID    string  `db:"team_public_id"`
	OffChange float64 `db:"off_change"`
	DefChange float64 `db:"def_change"`
}

func nullFloatToPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
