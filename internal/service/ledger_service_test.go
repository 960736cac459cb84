package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/billboards-ops/internal/ledger"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/repository"
	"github.com/nurpe/billboards-ops/internal/repository/mocks"
)

var (
	accountant = model.Principal{UserID: uuid.New(), Role: model.UserRoleAccountant}
	viewer     = model.Principal{UserID: uuid.New(), Role: model.UserRoleViewer}
)

func halfPaid(number string) model.Contract {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return model.Contract{
		Number:      number,
		RentCost:    1000,
		RentFeeRate: 10,
		TotalPaid:   500,
		StartDate:   &start,
	}
}

func newLedgerService(t *testing.T) (*LedgerService, *mocks.Inventory, *mocks.Ledger) {
	t.Helper()
	inventory := &mocks.Inventory{}
	ledgerRepo := &mocks.Ledger{}
	svc := NewLedgerService(inventory, ledgerRepo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	return svc, inventory, ledgerRepo
}

func expectSnapshot(inventory *mocks.Inventory, ledgerRepo *mocks.Ledger, contracts []model.Contract, withdrawals []model.Withdrawal, closures []model.PeriodClosure) {
	inventory.On("ListContracts", mock.Anything).Return(contracts, nil)
	ledgerRepo.On("ListWithdrawals", mock.Anything).Return(withdrawals, nil)
	ledgerRepo.On("ListClosures", mock.Anything).Return(closures, nil)
	ledgerRepo.On("ListExclusions", mock.Anything).Return([]model.ContractExclusion{}, nil)
}

func TestCreateWithdrawal_RetriesWithoutActorOnPolicyViolation(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)

	saved := &model.Withdrawal{ID: uuid.New(), Amount: 50, Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}
	ledgerRepo.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(w model.Withdrawal) bool {
		return w.CreatedBy != nil
	})).Return(nil, fmt.Errorf("insert withdrawal: %w", repository.ErrPolicyViolation)).Once()
	ledgerRepo.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(w model.Withdrawal) bool {
		return w.CreatedBy == nil
	})).Return(saved, nil).Once()
	expectSnapshot(inventory, ledgerRepo, []model.Contract{halfPaid("1086")}, []model.Withdrawal{*saved}, nil)

	change, err := svc.CreateWithdrawal(ctx, WithdrawalInput{
		Amount:    50,
		Date:      time.Date(2026, 10, 1, 15, 0, 0, 0, time.UTC),
		Principal: accountant,
	})
	require.NoError(t, err)
	require.Equal(t, saved.ID, change.Withdrawal.ID)
	require.Equal(t, 50.0, change.Report.TotalWithdrawals)
	require.Len(t, change.Report.Lines, 1)
	require.Equal(t, 50.0, change.Report.Lines[0].Allocated)
	require.False(t, change.Report.Settled["1086"])
	ledgerRepo.AssertNumberOfCalls(t, "CreateWithdrawal", 2)
}

func TestCreateWithdrawal_OtherErrorsAreNotRetried(t *testing.T) {
	ctx := context.Background()
	svc, _, ledgerRepo := newLedgerService(t)

	ledgerRepo.On("CreateWithdrawal", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("connection reset")).Once()

	_, err := svc.CreateWithdrawal(ctx, WithdrawalInput{Amount: 10, Date: time.Now(), Principal: accountant})
	require.Error(t, err)
	ledgerRepo.AssertNumberOfCalls(t, "CreateWithdrawal", 1)
}

func TestCreateWithdrawal_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, ledgerRepo := newLedgerService(t)

	_, err := svc.CreateWithdrawal(ctx, WithdrawalInput{Amount: 0, Date: time.Now(), Principal: accountant})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateWithdrawal(ctx, WithdrawalInput{Amount: 10, Principal: accountant})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateWithdrawal(ctx, WithdrawalInput{Amount: 10, Date: time.Now(), Principal: viewer})
	require.ErrorIs(t, err, ErrPermissionDenied)

	ledgerRepo.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
}

func TestCreateClosure_RejectedWithoutWrite(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)
	expectSnapshot(inventory, ledgerRepo, []model.Contract{halfPaid("1086")}, nil, nil)

	start, end := int64(2000), int64(2100)
	_, err := svc.CreateClosure(ctx, ClosureInput{
		Type:          model.ClosureTypeContractRange,
		ContractStart: &start,
		ContractEnd:   &end,
		Principal:     accountant,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ledger.ErrNoEligibleContracts)
	ledgerRepo.AssertNotCalled(t, "CreateClosure", mock.Anything, mock.Anything)
}

func TestCreateClosure_ReturnsRecomputedTotals(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)
	expectSnapshot(inventory, ledgerRepo,
		[]model.Contract{halfPaid("1086"), halfPaid("1200")},
		[]model.Withdrawal{{ID: uuid.New(), Amount: 70}},
		nil,
	)

	start, end := int64(1000), int64(1100)
	ledgerRepo.On("CreateClosure", mock.Anything, mock.MatchedBy(func(c model.PeriodClosure) bool {
		return c.ClosureDate.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)) && *c.CreatedBy == accountant.UserID
	})).Return(&model.PeriodClosure{
		ID:            uuid.New(),
		Type:          model.ClosureTypeContractRange,
		ClosureDate:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		ContractStart: &start,
		ContractEnd:   &end,
	}, nil).Once()

	change, err := svc.CreateClosure(ctx, ClosureInput{
		Type:          model.ClosureTypeContractRange,
		ContractStart: &start,
		ContractEnd:   &end,
		Principal:     accountant,
	})
	require.NoError(t, err)
	require.Len(t, change.Report.Closures, 1)

	summary := change.Report.Closures[0]
	require.Equal(t, []string{"1086"}, summary.ContractNumbers)
	require.Equal(t, 50.0, summary.TotalAmount)
	require.Equal(t, 50.0, summary.TotalWithdrawn)
	require.Zero(t, summary.RemainingBalance)
	require.Equal(t, 20.0, change.Report.Open.Pool)
}

func TestOverview_RequiresAuthenticatedPrincipal(t *testing.T) {
	svc, _, _ := newLedgerService(t)
	_, err := svc.Overview(context.Background(), model.Principal{})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSetExclusion_UpsertsAndRecomputes(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)

	ledgerRepo.On("UpsertExclusion", mock.Anything, model.ContractExclusion{ContractNumber: "1086", Excluded: true}).Return(nil).Once()
	inventory.On("ListContracts", mock.Anything).Return([]model.Contract{halfPaid("1086")}, nil)
	ledgerRepo.On("ListWithdrawals", mock.Anything).Return([]model.Withdrawal{}, nil)
	ledgerRepo.On("ListClosures", mock.Anything).Return([]model.PeriodClosure{}, nil)
	ledgerRepo.On("ListExclusions", mock.Anything).Return([]model.ContractExclusion{{ContractNumber: "1086", Excluded: true}}, nil)

	change, err := svc.SetExclusion(ctx, accountant, " 1086 ", true)
	require.NoError(t, err)
	require.Equal(t, []string{"1086"}, change.Report.Excluded)
	require.Empty(t, change.Report.Lines)
}

func TestUpdateWithdrawal_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, ledgerRepo := newLedgerService(t)
	id := uuid.New()
	ledgerRepo.On("GetWithdrawal", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := svc.UpdateWithdrawal(ctx, id, WithdrawalInput{Amount: 10, Date: time.Now(), Principal: accountant})
	require.ErrorIs(t, err, ErrNotFound)
}

func rangeClosure(start, end int64) model.PeriodClosure {
	return model.PeriodClosure{
		ID:            uuid.New(),
		Type:          model.ClosureTypeContractRange,
		ClosureDate:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		ContractStart: &start,
		ContractEnd:   &end,
	}
}

func TestDeleteWithdrawal_RecomputesClosureFromSmallerPool(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)

	id := uuid.New()
	ledgerRepo.On("DeleteWithdrawal", mock.Anything, id).Return(nil).Once()
	expectSnapshot(inventory, ledgerRepo,
		[]model.Contract{halfPaid("1086"), halfPaid("1200")},
		[]model.Withdrawal{{ID: uuid.New(), Amount: 30}},
		[]model.PeriodClosure{rangeClosure(1000, 1100)},
	)

	change, err := svc.DeleteWithdrawal(ctx, accountant, id)
	require.NoError(t, err)
	require.Len(t, change.Report.Closures, 1)

	summary := change.Report.Closures[0]
	require.Equal(t, 30.0, summary.TotalWithdrawn)
	require.Equal(t, 20.0, summary.RemainingBalance)
	require.Zero(t, change.Report.Open.Pool)
	require.Zero(t, change.Report.Open.Allocated)
	ledgerRepo.AssertExpectations(t)
}

func TestDeleteWithdrawal_NotFound(t *testing.T) {
	svc, _, ledgerRepo := newLedgerService(t)
	id := uuid.New()
	ledgerRepo.On("DeleteWithdrawal", mock.Anything, id).Return(gorm.ErrRecordNotFound).Once()

	_, err := svc.DeleteWithdrawal(context.Background(), accountant, id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateWithdrawal_RecomputesFromChangedPool(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)

	id := uuid.New()
	ledgerRepo.On("GetWithdrawal", mock.Anything, id).Return(&model.Withdrawal{ID: id, Amount: 30}, nil).Once()
	ledgerRepo.On("UpdateWithdrawal", mock.Anything, mock.MatchedBy(func(w model.Withdrawal) bool {
		return w.ID == id && w.Amount == 80 && w.Note != nil && *w.Note == "cash"
	})).Return(nil).Once()
	expectSnapshot(inventory, ledgerRepo,
		[]model.Contract{halfPaid("1086"), halfPaid("1200")},
		[]model.Withdrawal{{ID: id, Amount: 80}},
		[]model.PeriodClosure{rangeClosure(1000, 1100)},
	)

	change, err := svc.UpdateWithdrawal(ctx, id, WithdrawalInput{
		Amount:    80,
		Date:      time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC),
		Note:      strPtr(" cash "),
		Principal: accountant,
	})
	require.NoError(t, err)
	require.Equal(t, 80.0, change.Withdrawal.Amount)

	summary := change.Report.Closures[0]
	require.Equal(t, 50.0, summary.TotalWithdrawn)
	require.Zero(t, summary.RemainingBalance)
	require.Equal(t, 30.0, change.Report.Open.Pool)
	require.Equal(t, 30.0, change.Report.Open.Allocated)
	ledgerRepo.AssertExpectations(t)
}

func TestDeleteClosure_ReturnsContractsToOpenPool(t *testing.T) {
	ctx := context.Background()
	svc, inventory, ledgerRepo := newLedgerService(t)

	id := uuid.New()
	ledgerRepo.On("DeleteClosure", mock.Anything, id).Return(nil).Once()
	expectSnapshot(inventory, ledgerRepo,
		[]model.Contract{halfPaid("1086"), halfPaid("1200")},
		[]model.Withdrawal{{ID: uuid.New(), Amount: 70}},
		[]model.PeriodClosure{},
	)

	change, err := svc.DeleteClosure(ctx, accountant, id)
	require.NoError(t, err)
	require.Empty(t, change.Report.Closures)
	require.Equal(t, 2, change.Report.Open.Contracts)
	require.Equal(t, 70.0, change.Report.Open.Pool)
	require.Equal(t, 70.0, change.Report.Open.Allocated)
	require.Equal(t, 30.0, change.Report.Open.Balance)
}

func TestDeleteClosure_NotFound(t *testing.T) {
	svc, _, ledgerRepo := newLedgerService(t)
	id := uuid.New()
	ledgerRepo.On("DeleteClosure", mock.Anything, id).Return(gorm.ErrRecordNotFound).Once()

	_, err := svc.DeleteClosure(context.Background(), accountant, id)
	require.ErrorIs(t, err, ErrNotFound)
}
