package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nurpe/billboards-ops/internal/model"
)

// Inventory is a mock for repository.Inventory.
type Inventory struct {
	mock.Mock
}

func (m *Inventory) ListContracts(ctx context.Context) ([]model.Contract, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ListContractsEndingBetween(ctx context.Context, from, to time.Time) ([]model.Contract, error) {
	args := m.Called(ctx, from, to)
	if list, ok := args.Get(0).([]model.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ListContractsByNumbers(ctx context.Context, numbers []string) ([]model.Contract, error) {
	args := m.Called(ctx, numbers)
	if list, ok := args.Get(0).([]model.Contract); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ListBillboardsByIDs(ctx context.Context, ids []int64) ([]model.Billboard, error) {
	args := m.Called(ctx, ids)
	if list, ok := args.Get(0).([]model.Billboard); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ListBillboardsByMunicipality(ctx context.Context, municipality string) ([]model.Billboard, error) {
	args := m.Called(ctx, municipality)
	if list, ok := args.Get(0).([]model.Billboard); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ResetBillboards(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *Inventory) ListTeams(ctx context.Context) ([]model.InstallationTeam, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.InstallationTeam); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Inventory) ListLatestInstallations(ctx context.Context, billboardIDs []int64) (map[int64]model.InstallationRecord, error) {
	args := m.Called(ctx, billboardIDs)
	if recs, ok := args.Get(0).(map[int64]model.InstallationRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

// Ledger is a mock for repository.Ledger.
type Ledger struct {
	mock.Mock
}

func (m *Ledger) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.Withdrawal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	args := m.Called(ctx, id)
	if w, ok := args.Get(0).(*model.Withdrawal); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) CreateWithdrawal(ctx context.Context, w model.Withdrawal) (*model.Withdrawal, error) {
	args := m.Called(ctx, w)
	if saved, ok := args.Get(0).(*model.Withdrawal); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) UpdateWithdrawal(ctx context.Context, w model.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *Ledger) DeleteWithdrawal(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Ledger) ListClosures(ctx context.Context) ([]model.PeriodClosure, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.PeriodClosure); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) CreateClosure(ctx context.Context, c model.PeriodClosure) (*model.PeriodClosure, error) {
	args := m.Called(ctx, c)
	if saved, ok := args.Get(0).(*model.PeriodClosure); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) DeleteClosure(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Ledger) ListExclusions(ctx context.Context) ([]model.ContractExclusion, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.ContractExclusion); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) UpsertExclusion(ctx context.Context, e model.ContractExclusion) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// Removals is a mock for repository.Removals.
type Removals struct {
	mock.Mock
}

func (m *Removals) ListActiveItems(ctx context.Context) ([]model.ActiveRemovalItem, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.ActiveRemovalItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) ListActiveTaskContracts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) CreateTask(ctx context.Context, task model.RemovalTask, items []model.RemovalTaskItem) (*model.RemovalTask, error) {
	args := m.Called(ctx, task, items)
	if saved, ok := args.Get(0).(*model.RemovalTask); ok {
		return saved, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) ListTasks(ctx context.Context, status *model.RemovalTaskStatus) ([]model.RemovalTask, error) {
	args := m.Called(ctx, status)
	if list, ok := args.Get(0).([]model.RemovalTask); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) GetTask(ctx context.Context, id uuid.UUID) (*model.RemovalTask, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*model.RemovalTask); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) ListTaskItems(ctx context.Context, taskID uuid.UUID) ([]model.RemovalTaskItem, error) {
	args := m.Called(ctx, taskID)
	if list, ok := args.Get(0).([]model.RemovalTaskItem); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) GetItem(ctx context.Context, id uuid.UUID) (*model.RemovalTaskItem, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*model.RemovalTaskItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Removals) CompleteItems(ctx context.Context, taskID uuid.UUID, itemIDs []uuid.UUID, removalDate, completedAt time.Time) (int64, error) {
	args := m.Called(ctx, taskID, itemIDs, removalDate, completedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Removals) RevertItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Removals) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.RemovalTaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *Removals) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
