package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/billboards-ops/internal/model"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const withdrawalColumns = `
	id,
	amount,
	date,
	method,
	note,
	receiver,
	sender,
	created_by,
	created_at
`

// ListWithdrawals returns withdrawals newest first.
func (r *LedgerRepository) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	var withdrawals []model.Withdrawal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+withdrawalColumns+`
		FROM withdrawals
		ORDER BY created_at DESC
	`).Scan(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (r *LedgerRepository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.Withdrawal, error) {
	var w model.Withdrawal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+withdrawalColumns+`
		FROM withdrawals
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&w).Error; err != nil {
		return nil, err
	}
	if w.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &w, nil
}

// CreateWithdrawal inserts a withdrawal. created_by is written only when set, so a
// caller can retry without the actor identifier.
func (r *LedgerRepository) CreateWithdrawal(ctx context.Context, w model.Withdrawal) (*model.Withdrawal, error) {
	var saved model.Withdrawal
	var err error
	if w.CreatedBy != nil {
		err = r.db.WithContext(ctx).Raw(`
			INSERT INTO withdrawals (amount, date, method, note, receiver, sender, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING`+withdrawalColumns,
			w.Amount, w.Date, w.Method, w.Note, w.Receiver, w.Sender, w.CreatedBy,
		).Scan(&saved).Error
	} else {
		err = r.db.WithContext(ctx).Raw(`
			INSERT INTO withdrawals (amount, date, method, note, receiver, sender)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING`+withdrawalColumns,
			w.Amount, w.Date, w.Method, w.Note, w.Receiver, w.Sender,
		).Scan(&saved).Error
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}

func (r *LedgerRepository) UpdateWithdrawal(ctx context.Context, w model.Withdrawal) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE withdrawals
		SET
			amount = ?,
			date = ?,
			method = ?,
			note = ?,
			receiver = ?,
			sender = ?
		WHERE id = ?
	`, w.Amount, w.Date, w.Method, w.Note, w.Receiver, w.Sender, w.ID)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LedgerRepository) DeleteWithdrawal(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM withdrawals WHERE id = ?`, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

const closureColumns = `
	id,
	closure_type AS type,
	closure_date,
	period_start,
	period_end,
	contract_start,
	contract_end,
	notes,
	created_by,
	created_at
`

func (r *LedgerRepository) ListClosures(ctx context.Context) ([]model.PeriodClosure, error) {
	var closures []model.PeriodClosure
	if err := r.db.WithContext(ctx).Raw(`
		SELECT`+closureColumns+`
		FROM period_closures
		ORDER BY closure_date ASC, created_at ASC
	`).Scan(&closures).Error; err != nil {
		return nil, err
	}
	return closures, nil
}

func (r *LedgerRepository) CreateClosure(ctx context.Context, c model.PeriodClosure) (*model.PeriodClosure, error) {
	var saved model.PeriodClosure
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO period_closures (
			closure_type,
			closure_date,
			period_start,
			period_end,
			contract_start,
			contract_end,
			notes,
			created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+closureColumns,
		c.Type,
		c.ClosureDate,
		c.PeriodStart,
		c.PeriodEnd,
		c.ContractStart,
		c.ContractEnd,
		c.Notes,
		c.CreatedBy,
	).Scan(&saved).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}

func (r *LedgerRepository) DeleteClosure(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM period_closures WHERE id = ?`, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LedgerRepository) ListExclusions(ctx context.Context) ([]model.ContractExclusion, error) {
	var exclusions []model.ContractExclusion
	if err := r.db.WithContext(ctx).Raw(`
		SELECT contract_number, excluded, updated_at
		FROM contract_exclusions
	`).Scan(&exclusions).Error; err != nil {
		return nil, err
	}
	return exclusions, nil
}

func (r *LedgerRepository) UpsertExclusion(ctx context.Context, e model.ContractExclusion) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO contract_exclusions (contract_number, excluded, updated_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (contract_number)
		DO UPDATE SET excluded = EXCLUDED.excluded, updated_at = NOW()
	`, e.ContractNumber, e.Excluded).Error
	return translateError(err)
}
