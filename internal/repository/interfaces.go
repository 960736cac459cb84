package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/billboards-ops/internal/model"
)

// Inventory reads contracts, billboards and teams and resets billboards after removal.
type Inventory interface {
	ListContracts(ctx context.Context) ([]model.Contract, error)
	ListContractsEndingBetween(ctx context.Context, from, to time.Time) ([]model.Contract, error)
	ListContractsByNumbers(ctx context.Context, numbers []string) ([]model.Contract, error)
	ListBillboardsByIDs(ctx context.Context, ids []int64) ([]model.Billboard, error)
	ListBillboardsByMunicipality(ctx context.Context, municipality string) ([]model.Billboard, error)
	ResetBillboards(ctx context.Context, ids []int64) error
	ListTeams(ctx context.Context) ([]model.InstallationTeam, error)
	ListLatestInstallations(ctx context.Context, billboardIDs []int64) (map[int64]model.InstallationRecord, error)
}

// Ledger persists withdrawals, closures and exclusion flags.
type Ledger interface {
	ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error)
	GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error)
	CreateWithdrawal(ctx context.Context, w model.Withdrawal) (*model.Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, w model.Withdrawal) error
	DeleteWithdrawal(ctx context.Context, id uuid.UUID) error
	ListClosures(ctx context.Context) ([]model.PeriodClosure, error)
	CreateClosure(ctx context.Context, c model.PeriodClosure) (*model.PeriodClosure, error)
	DeleteClosure(ctx context.Context, id uuid.UUID) error
	ListExclusions(ctx context.Context) ([]model.ContractExclusion, error)
	UpsertExclusion(ctx context.Context, e model.ContractExclusion) error
}

// Removals persists removal tasks and their line items.
type Removals interface {
	ListActiveItems(ctx context.Context) ([]model.ActiveRemovalItem, error)
	ListActiveTaskContracts(ctx context.Context) ([]string, error)
	CreateTask(ctx context.Context, task model.RemovalTask, items []model.RemovalTaskItem) (*model.RemovalTask, error)
	ListTasks(ctx context.Context, status *model.RemovalTaskStatus) ([]model.RemovalTask, error)
	GetTask(ctx context.Context, id uuid.UUID) (*model.RemovalTask, error)
	ListTaskItems(ctx context.Context, taskID uuid.UUID) ([]model.RemovalTaskItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*model.RemovalTaskItem, error)
	CompleteItems(ctx context.Context, taskID uuid.UUID, itemIDs []uuid.UUID, removalDate, completedAt time.Time) (int64, error)
	RevertItem(ctx context.Context, id uuid.UUID) error
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status model.RemovalTaskStatus) error
	DeleteItems(ctx context.Context, ids []uuid.UUID) error
}

var (
	_ Inventory = (*InventoryRepository)(nil)
	_ Ledger    = (*LedgerRepository)(nil)
	_ Removals  = (*RemovalRepository)(nil)
)
