// Package coremock holds testify mocks for the core interfaces.
package coremock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/martyvasquez/lineupai-sub000/internal/core"
	"github.com/martyvasquez/lineupai-sub000/internal/gamechanger"
)

// Repository is a mock of core.Repository.
type Repository struct {
	mock.Mock
}

var _ core.Repository = (*Repository)(nil)

// NewRepository returns a Repository whose expectations are asserted when t
// finishes.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Repository) ListRoster(ctx context.Context, teamID string) ([]gamechanger.RosterPlayer, error) {
	args := m.Called(ctx, teamID)
	roster, _ := args.Get(0).([]gamechanger.RosterPlayer)
	return roster, args.Error(1)
}

func (m *Repository) CreatePlayer(ctx context.Context, teamID string, p core.NewPlayer) (gamechanger.RosterPlayer, error) {
	args := m.Called(ctx, teamID, p)
	rp, _ := args.Get(0).(gamechanger.RosterPlayer)
	return rp, args.Error(1)
}

func (m *Repository) SaveSeasonStats(ctx context.Context, imp core.SeasonImport) ([]gamechanger.RosterPlayer, error) {
	args := m.Called(ctx, imp)
	created, _ := args.Get(0).([]gamechanger.RosterPlayer)
	return created, args.Error(1)
}

func (m *Repository) RecordImport(ctx context.Context, rec core.ImportRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *Repository) ListImports(ctx context.Context, teamID string, limit int) ([]core.ImportRecord, error) {
	args := m.Called(ctx, teamID, limit)
	recs, _ := args.Get(0).([]core.ImportRecord)
	return recs, args.Error(1)
}
