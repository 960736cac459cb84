package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Allocation is the result of spreading a withdrawal pool over contract fees,
// oldest contract first.
type Allocation struct {
	Amounts   map[string]float64
	Pool      float64
	Consumed  float64
	Remaining float64
}

// For returns the amount allocated to a contract number.
func (a Allocation) For(number string) float64 {
	return a.Amounts[number]
}

// SortOldestFirst returns a copy of fees ordered by ascending contract number.
func SortOldestFirst(fees []ContractFees) []ContractFees {
	sorted := make([]ContractFees, len(fees))
	copy(sorted, fees)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Number != sorted[j].Number {
			return sorted[i].Number < sorted[j].Number
		}
		return sorted[i].Contract.Number < sorted[j].Contract.Number
	})
	return sorted
}

// AllocateFIFO lets every contract absorb min(remaining pool, collected fee)
// before the next newer contract receives anything.
func AllocateFIFO(fees []ContractFees, pool float64) Allocation {
	remaining := money(pool)
	amounts := make(map[string]float64, len(fees))

	for _, f := range SortOldestFirst(fees) {
		take := decimal.Min(remaining, money(f.CollectedFee))
		if !take.IsPositive() {
			amounts[f.Contract.Number] = 0
			continue
		}
		amounts[f.Contract.Number] = toFloat(take)
		remaining = remaining.Sub(take)
	}

	start := money(pool)
	return Allocation{
		Amounts:   amounts,
		Pool:      toFloat(start),
		Consumed:  toFloat(start.Sub(remaining)),
		Remaining: toFloat(remaining),
	}
}

// CoveragePercentage is the share of the collected fee covered by allocated withdrawals.
func CoveragePercentage(f ContractFees, allocated float64) float64 {
	fee := money(f.CollectedFee)
	if !fee.IsPositive() {
		return 0
	}
	return roundPercent(money(allocated).Div(fee).Mul(hundred))
}

// IsSettled requires full customer payment and full withdrawal coverage.
func IsSettled(f ContractFees, allocated float64) bool {
	return f.CollectedFee > 0 &&
		fullyPaid(f) &&
		allocated >= f.CollectedFee
}

// fullyPaid compares the unrounded amounts. CollectionPercentage is rounded for
// display and reads 100 for contracts a fraction short of full payment.
func fullyPaid(f ContractFees) bool {
	total := money(f.TotalAmount)
	return total.IsPositive() && money(f.Contract.TotalPaid).GreaterThanOrEqual(total)
}
