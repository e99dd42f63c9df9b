package rating

import (
	"context"
	"errors"
)

// ErrDuplicateChange reports an attempt to append a ledger entry for a
// (fixture, team) pair that already has one.
var ErrDuplicateChange = errors.New("duplicate rating change")

// Repository exposes the rating store: aggregated current ratings
// (base + ledger sum) and the append-only ledger of changes.
type Repository interface {
	// GetTeamRating resolves a team's current aggregated rating.
	GetTeamRating(ctx context.Context, teamID string) (TeamRating, bool, error)
	// ListTeamRatings resolves current aggregated ratings for every team
	// in a season.
	ListTeamRatings(ctx context.Context, season string) ([]TeamRating, error)
	// AppendChanges persists both of a fixture's ledger entries as a unit:
	// either both rows land or neither does. It fails loudly on write
	// failure and on a duplicate (fixture, team) pair.
	AppendChanges(ctx context.Context, home, away Change) error
}
