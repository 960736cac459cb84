package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/billboards-ops/internal/ledger"
	"github.com/nurpe/billboards-ops/internal/model"
	"github.com/nurpe/billboards-ops/internal/repository"
)

type LedgerService struct {
	inventory repository.Inventory
	ledger    repository.Ledger
	log       zerolog.Logger
	now       func() time.Time
}

func NewLedgerService(inventory repository.Inventory, ledgerRepo repository.Ledger, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		inventory: inventory,
		ledger:    ledgerRepo,
		log:       log,
		now:       time.Now,
	}
}

type WithdrawalInput struct {
	Amount    float64
	Date      time.Time
	Method    *string
	Note      *string
	Receiver  *string
	Sender    *string
	Principal model.Principal
}

type ClosureInput struct {
	Type          model.ClosureType
	ClosureDate   time.Time
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	ContractStart *int64
	ContractEnd   *int64
	Notes         *string
	Principal     model.Principal
}

// LedgerChange is returned by every ledger write together with the report
// recomputed after the write.
type LedgerChange struct {
	Withdrawal *model.Withdrawal
	Closure    *model.PeriodClosure
	Report     *ledger.Report
}

// Snapshot loads every record the ledger computations need.
func (s *LedgerService) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	contracts, err := s.inventory.ListContracts(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	withdrawals, err := s.ledger.ListWithdrawals(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	closures, err := s.ledger.ListClosures(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	exclusions, err := s.ledger.ListExclusions(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	excluded := make(map[string]bool, len(exclusions))
	for _, e := range exclusions {
		if e.Excluded {
			excluded[e.ContractNumber] = true
		}
	}
	return ledger.Snapshot{
		Contracts:   contracts,
		Withdrawals: withdrawals,
		Closures:    closures,
		Excluded:    excluded,
	}, nil
}

func (s *LedgerService) Overview(ctx context.Context, principal model.Principal) (*ledger.Report, error) {
	if principal.UserID == uuid.Nil {
		return nil, ErrPermissionDenied
	}
	return s.recompute(ctx)
}

func (s *LedgerService) recompute(ctx context.Context) (*ledger.Report, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := ledger.Recompute(snapshot)
	return &report, nil
}

func validateWithdrawal(input WithdrawalInput) error {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func (s *LedgerService) CreateWithdrawal(ctx context.Context, input WithdrawalInput) (*LedgerChange, error) {
	if !input.Principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}
	if err := validateWithdrawal(input); err != nil {
		return nil, err
	}

	w := model.Withdrawal{
		Amount:   input.Amount,
		Date:     dateOnly(input.Date),
		Method:   trimmed(input.Method),
		Note:     trimmed(input.Note),
		Receiver: trimmed(input.Receiver),
		Sender:   trimmed(input.Sender),
	}
	if input.Principal.UserID != uuid.Nil {
		actor := input.Principal.UserID
		w.CreatedBy = &actor
	}

	saved, err := s.ledger.CreateWithdrawal(ctx, w)
	if err != nil && errors.Is(err, repository.ErrPolicyViolation) && w.CreatedBy != nil {
		s.log.Warn().Err(err).Msg("withdrawal insert rejected by policy, retrying without actor")
		w.CreatedBy = nil
		saved, err = s.ledger.CreateWithdrawal(ctx, w)
	}
	if err != nil {
		return nil, err
	}

	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerChange{Withdrawal: saved, Report: report}, nil
}

func (s *LedgerService) UpdateWithdrawal(ctx context.Context, id uuid.UUID, input WithdrawalInput) (*LedgerChange, error) {
	if !input.Principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}
	if err := validateWithdrawal(input); err != nil {
		return nil, err
	}

	existing, err := s.ledger.GetWithdrawal(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	existing.Amount = input.Amount
	existing.Date = dateOnly(input.Date)
	existing.Method = trimmed(input.Method)
	existing.Note = trimmed(input.Note)
	existing.Receiver = trimmed(input.Receiver)
	existing.Sender = trimmed(input.Sender)

	if err := s.ledger.UpdateWithdrawal(ctx, *existing); err != nil {
		return nil, mapNotFound(err)
	}

	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerChange{Withdrawal: existing, Report: report}, nil
}

// DeleteWithdrawal removes a withdrawal. The pool shrinks, so every closure total
// in the returned report is recomputed.
func (s *LedgerService) DeleteWithdrawal(ctx context.Context, principal model.Principal, id uuid.UUID) (*LedgerChange, error) {
	if !principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}
	if err := s.ledger.DeleteWithdrawal(ctx, id); err != nil {
		return nil, mapNotFound(err)
	}
	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerChange{Report: report}, nil
}

func (s *LedgerService) CreateClosure(ctx context.Context, input ClosureInput) (*LedgerChange, error) {
	if !input.Principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}

	candidate := model.PeriodClosure{
		Type:          input.Type,
		ClosureDate:   input.ClosureDate,
		PeriodStart:   input.PeriodStart,
		PeriodEnd:     input.PeriodEnd,
		ContractStart: input.ContractStart,
		ContractEnd:   input.ContractEnd,
		Notes:         trimmed(input.Notes),
	}
	if candidate.ClosureDate.IsZero() {
		candidate.ClosureDate = s.now()
	}
	candidate.ClosureDate = dateOnly(candidate.ClosureDate)
	if input.Principal.UserID != uuid.Nil {
		actor := input.Principal.UserID
		candidate.CreatedBy = &actor
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateClosure(snapshot, candidate); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.ledger.CreateClosure(ctx, candidate)
	if err != nil {
		return nil, err
	}

	snapshot.Closures = append(snapshot.Closures, *saved)
	report := ledger.Recompute(snapshot)
	s.log.Info().
		Str("closure_id", saved.ID.String()).
		Str("type", string(saved.Type)).
		Msg("closure created")
	return &LedgerChange{Closure: saved, Report: &report}, nil
}

func (s *LedgerService) DeleteClosure(ctx context.Context, principal model.Principal, id uuid.UUID) (*LedgerChange, error) {
	if !principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}
	if err := s.ledger.DeleteClosure(ctx, id); err != nil {
		return nil, mapNotFound(err)
	}
	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerChange{Report: report}, nil
}

func (s *LedgerService) SetExclusion(ctx context.Context, principal model.Principal, contractNumber string, excluded bool) (*LedgerChange, error) {
	if !principal.CanManageLedger() {
		return nil, ErrPermissionDenied
	}
	contractNumber = strings.TrimSpace(contractNumber)
	if contractNumber == "" {
		return nil, fmt.Errorf("%w: contract_number is required", ErrInvalidInput)
	}
	if err := s.ledger.UpsertExclusion(ctx, model.ContractExclusion{
		ContractNumber: contractNumber,
		Excluded:       excluded,
	}); err != nil {
		return nil, err
	}
	report, err := s.recompute(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerChange{Report: report}, nil
}
