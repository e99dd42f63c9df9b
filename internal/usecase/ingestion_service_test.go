package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openfooty/fixture-difficulty/internal/domain/fixture"
)

type stubXGProvider struct {
	items []ExternalFixtureXG
	err   error
}

func (p *stubXGProvider) FetchSeasonXG(_ context.Context, _ string) ([]ExternalFixtureXG, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.items, nil
}

func TestIngestionService_SyncSeasonXG(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, 8, 16, 15, 0, 0, 0, time.UTC)
	repo := &stubFixtureRepo{fixtures: []fixture.Fixture{
		{ID: "fx1", Season: "2025-26", Gameweek: 1, HomeTeamID: "a", AwayTeamID: "b", KickoffAt: kickoff},
		{ID: "fx2", Season: "2025-26", Gameweek: 1, HomeTeamID: "c", AwayTeamID: "d", KickoffAt: kickoff},
	}}
	provider := &stubXGProvider{items: []ExternalFixtureXG{
		{FixtureID: "fx1", HomeXG: xg(1.4), AwayXG: xg(0.7)},
		{FixtureID: "fx2", HomeXG: xg(2.0)},
		{FixtureID: "unknown", HomeXG: xg(1.0), AwayXG: xg(1.0)},
	}}
	svc := NewIngestionService(provider, repo, 4, nil)

	report, err := svc.SyncSeasonXG(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("sync season xg: %v", err)
	}
	if report.Fetched != 3 || report.Updated != 1 || report.Skipped != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	fx, _, err := repo.GetByID(context.Background(), "fx1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	if !fx.HasXG() || *fx.HomeXG != 1.4 {
		t.Fatalf("xg not written: %+v", fx)
	}
}

func TestIngestionService_SyncSeasonXG_ProviderRequired(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(nil, &stubFixtureRepo{}, 2, nil)
	if _, err := svc.SyncSeasonXG(context.Background(), "2025-26"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestIngestionService_SyncSeasonXG_ProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &stubXGProvider{err: errors.New("upstream down")}
	svc := NewIngestionService(provider, &stubFixtureRepo{}, 2, nil)
	if _, err := svc.SyncSeasonXG(context.Background(), "2025-26"); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestIngestionService_SyncSeasonXG_EmptyFeed(t *testing.T) {
	t.Parallel()

	svc := NewIngestionService(&stubXGProvider{}, &stubFixtureRepo{}, 2, nil)
	report, err := svc.SyncSeasonXG(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("sync season xg: %v", err)
	}
	if report.Fetched != 0 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
