package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/billboards-ops/internal/model"
)

// Snapshot is everything the ledger needs, fetched wholesale from the store.
type Snapshot struct {
	Contracts   []model.Contract
	Withdrawals []model.Withdrawal
	Closures    []model.PeriodClosure
	Excluded    map[string]bool
}

type ContractLine struct {
	ContractFees
	Allocated          float64
	CoveragePercentage float64
	Settled            bool
	ClosureID          *uuid.UUID
}

type OpenSummary struct {
	Contracts int
	TotalFees float64
	Allocated float64
	Balance   float64
	// Pool is what is left of all withdrawals after closures took their share.
	Pool        float64
	Unallocated float64
}

type Report struct {
	Lines            []ContractLine
	Closures         []ClosureSummary
	Open             OpenSummary
	TotalWithdrawals float64
	ClosedWithdrawn  float64
	Settled          map[string]bool
	Excluded         []string
}

// Recompute derives every fee, allocation and closure total from the snapshot.
// Nothing is cached between calls.
func Recompute(s Snapshot) Report {
	fees := make([]ContractFees, 0, len(s.Contracts))
	var excluded []string
	for _, c := range s.Contracts {
		if s.Excluded[c.Number] {
			excluded = append(excluded, c.Number)
			continue
		}
		fees = append(fees, ComputeFees(c))
	}
	fees = SortOldestFirst(fees)

	closures := orderClosures(s.Closures)
	summaries := make([]ClosureSummary, len(closures))
	for i, cl := range closures {
		summaries[i] = ClosureSummary{Closure: cl}
	}

	total := decimal.Zero
	for _, w := range s.Withdrawals {
		total = total.Add(money(w.Amount))
	}

	// Withdrawals are consumed oldest contract first regardless of closure boundaries.
	global := AllocateFIFO(fees, toFloat(total))

	membership := make([]int, len(fees))
	var open []ContractFees
	amounts := make([]decimal.Decimal, len(closures))
	withdrawn := make([]decimal.Decimal, len(closures))
	for i, f := range fees {
		idx := classify(closures, f)
		membership[i] = idx
		if idx < 0 {
			open = append(open, f)
			continue
		}
		summaries[idx].ContractNumbers = append(summaries[idx].ContractNumbers, f.Contract.Number)
		summaries[idx].TotalContracts++
		amounts[idx] = amounts[idx].Add(money(f.CollectedFee))
		withdrawn[idx] = withdrawn[idx].Add(money(global.For(f.Contract.Number)))
	}

	closedWithdrawn := decimal.Zero
	for i := range summaries {
		summaries[i].TotalAmount = toFloat(amounts[i])
		summaries[i].TotalWithdrawn = toFloat(withdrawn[i])
		summaries[i].RemainingBalance = toFloat(amounts[i].Sub(withdrawn[i]))
		closedWithdrawn = closedWithdrawn.Add(withdrawn[i])
	}

	pool := total.Sub(closedWithdrawn)
	if pool.IsNegative() {
		pool = decimal.Zero
	}
	openAlloc := AllocateFIFO(open, toFloat(pool))

	report := Report{
		Lines:            make([]ContractLine, 0, len(fees)),
		Closures:         summaries,
		TotalWithdrawals: toFloat(total),
		ClosedWithdrawn:  toFloat(closedWithdrawn),
		Settled:          make(map[string]bool),
		Excluded:         excluded,
	}

	openFees := decimal.Zero
	for i, f := range fees {
		line := ContractLine{ContractFees: f}
		if idx := membership[i]; idx >= 0 {
			id := closures[idx].ID
			line.ClosureID = &id
			line.Allocated = global.For(f.Contract.Number)
		} else {
			line.Allocated = openAlloc.For(f.Contract.Number)
			openFees = openFees.Add(money(f.CollectedFee))
		}
		line.CoveragePercentage = CoveragePercentage(f, line.Allocated)
		line.Settled = IsSettled(f, line.Allocated)
		if line.Settled {
			report.Settled[f.Contract.Number] = true
		}
		report.Lines = append(report.Lines, line)
	}

	report.Open = OpenSummary{
		Contracts:   len(open),
		TotalFees:   toFloat(openFees),
		Allocated:   openAlloc.Consumed,
		Balance:     toFloat(openFees.Sub(decimal.NewFromFloat(openAlloc.Consumed))),
		Pool:        openAlloc.Pool,
		Unallocated: openAlloc.Remaining,
	}
	return report
}

// IsClosed reports whether the contract number is covered by a closure in the report.
func (r Report) IsClosed(number string) bool {
	for _, line := range r.Lines {
		if line.Contract.Number == number {
			return line.ClosureID != nil
		}
	}
	return false
}
