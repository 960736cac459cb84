package ledger

import (
	"fmt"
	"sort"

	"github.com/nurpe/billboards-ops/internal/model"
)

type ClosureSummary struct {
	Closure          model.PeriodClosure
	ContractNumbers  []string
	TotalContracts   int
	TotalAmount      float64
	TotalWithdrawn   float64
	RemainingBalance float64
}

// closureContains reports whether a contract falls inside the closure range.
// Period closures match on the contract start date, contract-range closures on
// the numeric contract number, both bounds inclusive.
func closureContains(cl model.PeriodClosure, f ContractFees) bool {
	switch cl.Type {
	case model.ClosureTypePeriod:
		if cl.PeriodStart == nil || cl.PeriodEnd == nil || f.Contract.StartDate == nil {
			return false
		}
		day := dateOnly(*f.Contract.StartDate)
		return !day.Before(dateOnly(*cl.PeriodStart)) && !day.After(dateOnly(*cl.PeriodEnd))
	case model.ClosureTypeContractRange:
		if cl.ContractStart == nil || cl.ContractEnd == nil {
			return false
		}
		return f.Number >= *cl.ContractStart && f.Number <= *cl.ContractEnd
	default:
		return false
	}
}

// orderClosures sorts closures by closure date, then creation time. A contract
// belongs to the first closure in this order that contains it.
func orderClosures(closures []model.PeriodClosure) []model.PeriodClosure {
	ordered := make([]model.PeriodClosure, len(closures))
	copy(ordered, closures)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ClosureDate.Equal(ordered[j].ClosureDate) {
			return ordered[i].ClosureDate.Before(ordered[j].ClosureDate)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered
}

func classify(closures []model.PeriodClosure, f ContractFees) int {
	for i, cl := range closures {
		if closureContains(cl, f) {
			return i
		}
	}
	return -1
}

// ValidateClosure checks a closure candidate against the current snapshot before
// it is written.
func ValidateClosure(s Snapshot, candidate model.PeriodClosure) error {
	switch candidate.Type {
	case model.ClosureTypePeriod:
		if candidate.PeriodStart == nil || candidate.PeriodEnd == nil {
			return ErrEmptyRange
		}
		if !dateOnly(*candidate.PeriodStart).Before(dateOnly(*candidate.PeriodEnd)) {
			return ErrInvalidRange
		}
	case model.ClosureTypeContractRange:
		if candidate.ContractStart == nil || candidate.ContractEnd == nil {
			return ErrEmptyRange
		}
		if *candidate.ContractStart >= *candidate.ContractEnd {
			return ErrInvalidRange
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownClosureType, candidate.Type)
	}

	existing := orderClosures(s.Closures)
	for _, c := range s.Contracts {
		if s.Excluded[c.Number] {
			continue
		}
		f := ComputeFees(c)
		if classify(existing, f) >= 0 {
			continue
		}
		if closureContains(candidate, f) {
			return nil
		}
	}
	return ErrNoEligibleContracts
}
