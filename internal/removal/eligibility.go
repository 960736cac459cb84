package removal

import (
	"time"

	"github.com/nurpe/billboards-ops/internal/model"
)

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsExpired reports whether the contract end date is today or earlier.
func IsExpired(c model.Contract, today time.Time) bool {
	if c.EndDate == nil {
		return false
	}
	return !dateOnly(*c.EndDate).After(dateOnly(today))
}

// rentedElsewhere reports whether the billboard now belongs to another contract
// that is still running.
func rentedElsewhere(b model.Billboard, contractNumber string, today time.Time) bool {
	if b.ContractNumber == nil || *b.ContractNumber == "" || *b.ContractNumber == contractNumber {
		return false
	}
	if b.RentEndDate == nil {
		return false
	}
	return dateOnly(*b.RentEndDate).After(dateOnly(today))
}

// EligibleBillboards drops billboards that are already queued for removal or that
// were re-rented under a different, still active contract.
func EligibleBillboards(contractNumber string, billboards []model.Billboard, queued map[int64]bool, today time.Time) []model.Billboard {
	result := make([]model.Billboard, 0, len(billboards))
	for _, b := range billboards {
		if queued[b.ID] {
			continue
		}
		if rentedElsewhere(b, contractNumber, today) {
			continue
		}
		result = append(result, b)
	}
	return result
}
