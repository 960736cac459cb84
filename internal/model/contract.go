package model

import "time"

type Contract struct {
	Number                   string
	CustomerName             string
	AdType                   string
	RentCost                 float64
	InstallationCost         float64
	PrintCost                float64
	IncludeInstallationInFee bool
	IncludePrintInFee        bool
	RentFeeRate              float64
	InstallationFeeRate      float64
	PrintFeeRate             float64
	TotalPaid                float64
	StartDate                *time.Time
	EndDate                  *time.Time
	Status                   string
	BillboardIDs             []int64 `gorm:"-"`
}

// ContractExclusion removes a contract from the operating-fee ledger without closing it.
type ContractExclusion struct {
	ContractNumber string
	Excluded       bool
	UpdatedAt      time.Time
}
