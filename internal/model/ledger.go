package model

import (
	"time"

	"github.com/google/uuid"
)

type ClosureType string

const (
	ClosureTypePeriod        ClosureType = "period"
	ClosureTypeContractRange ClosureType = "contract_range"
)

type Withdrawal struct {
	ID        uuid.UUID
	Amount    float64
	Date      time.Time
	Method    *string
	Note      *string
	Receiver  *string
	Sender    *string
	CreatedBy *uuid.UUID
	CreatedAt time.Time
}

// PeriodClosure stores only identity and range. Totals are recomputed from live data.
type PeriodClosure struct {
	ID            uuid.UUID
	Type          ClosureType
	ClosureDate   time.Time
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	ContractStart *int64
	ContractEnd   *int64
	Notes         *string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}
