package fixture

import (
	"context"
	"errors"
)

// ErrNotFound reports an update against a fixture id that does not exist.
var ErrNotFound = errors.New("fixture not found")

// XGUpdate is a partial update of a fixture's post-match data. Nil fields
// are left untouched.
type XGUpdate struct {
	HomeXG   *float64
	AwayXG   *float64
	Gameweek *int
}

// Repository exposes fixture operations. ListUnprocessedBySeason returns
// fixtures that have no entries in the rating ledger yet.
type Repository interface {
	ListBySeason(ctx context.Context, season string) ([]Fixture, error)
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	ListUnprocessedBySeason(ctx context.Context, season string) ([]Fixture, error)
	UpdateXG(ctx context.Context, fixtureID string, update XGUpdate) error
}
