package team

import "context"

// Repository exposes team read operations.
type Repository interface {
	ListBySeason(ctx context.Context, season string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
}
