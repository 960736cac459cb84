package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/billboards-ops/internal/ledger"
	"github.com/nurpe/billboards-ops/internal/model"
)

// feeContract builds a fully paid rent-only contract whose collected fee equals fee.
func feeContract(number string, fee float64) model.Contract {
	return model.Contract{
		Number:      number,
		RentCost:    fee * 10,
		RentFeeRate: 10,
		TotalPaid:   fee * 10,
	}
}

func halfPaidContract() model.Contract {
	return model.Contract{
		Number:      "1086",
		RentCost:    1000,
		RentFeeRate: 10,
		TotalPaid:   500,
	}
}

func TestAllocateFIFO_OldestFirst(t *testing.T) {
	a := ledger.ComputeFees(halfPaidContract())
	b := ledger.ComputeFees(feeContract("1090", 80))

	alloc := ledger.AllocateFIFO([]ledger.ContractFees{b, a}, 60)

	assert.Equal(t, 50.0, alloc.For("1086"))
	assert.Equal(t, 10.0, alloc.For("1090"))
	assert.Equal(t, 60.0, alloc.Consumed)
	assert.Zero(t, alloc.Remaining)
	assert.Equal(t, 100.0, ledger.CoveragePercentage(a, alloc.For("1086")))
	assert.Equal(t, 12.5, ledger.CoveragePercentage(b, alloc.For("1090")))
}

func TestAllocateFIFO_UnparsableNumbersSortFirst(t *testing.T) {
	odd := ledger.ComputeFees(feeContract("draft", 30))
	regular := ledger.ComputeFees(feeContract("5", 30))

	alloc := ledger.AllocateFIFO([]ledger.ContractFees{regular, odd}, 30)

	assert.Equal(t, 30.0, alloc.For("draft"))
	assert.Zero(t, alloc.For("5"))
}

func TestAllocateFIFO_PoolLargerThanFees(t *testing.T) {
	fees := []ledger.ContractFees{
		ledger.ComputeFees(feeContract("1", 10)),
		ledger.ComputeFees(feeContract("2", 20)),
	}

	alloc := ledger.AllocateFIFO(fees, 100)

	assert.Equal(t, 30.0, alloc.Consumed)
	assert.Equal(t, 70.0, alloc.Remaining)
}

func TestAllocateFIFO_Monotonic(t *testing.T) {
	fees := []ledger.ContractFees{
		ledger.ComputeFees(feeContract("30", 40)),
		ledger.ComputeFees(feeContract("10", 25)),
		ledger.ComputeFees(feeContract("20", 15)),
	}
	sorted := ledger.SortOldestFirst(fees)

	for pool := 0.0; pool <= 100; pool += 5 {
		alloc := ledger.AllocateFIFO(fees, pool)
		for i := 1; i < len(sorted); i++ {
			newer := alloc.For(sorted[i].Contract.Number)
			if newer > 0 {
				older := sorted[i-1]
				require.Equal(t, older.CollectedFee, alloc.For(older.Contract.Number), "pool=%v", pool)
			}
		}
	}
}

func TestIsSettled(t *testing.T) {
	paid := ledger.ComputeFees(feeContract("1", 50))
	half := ledger.ComputeFees(halfPaidContract())
	free := ledger.ComputeFees(model.Contract{Number: "3", RentCost: 100, TotalPaid: 100})

	assert.True(t, ledger.IsSettled(paid, 50))
	assert.False(t, ledger.IsSettled(paid, 49))
	// fully allocated but only half paid by the customer
	assert.False(t, ledger.IsSettled(half, 50))
	assert.False(t, ledger.IsSettled(free, 0))
}

func TestIsSettled_OneShortOfFullPayment(t *testing.T) {
	almost := ledger.ComputeFees(model.Contract{
		Number:      "2040",
		RentCost:    100000,
		RentFeeRate: 10,
		TotalPaid:   99999,
	})
	require.Equal(t, 100.0, almost.CollectionPercentage)
	require.Equal(t, 10000.0, almost.CollectedFee)

	assert.False(t, ledger.IsSettled(almost, 10000))

	report := ledger.Recompute(ledger.Snapshot{
		Contracts:   []model.Contract{almost.Contract},
		Withdrawals: []model.Withdrawal{{Amount: 10000}},
	})
	require.Len(t, report.Lines, 1)
	assert.Equal(t, 10000.0, report.Lines[0].Allocated)
	assert.False(t, report.Lines[0].Settled)
	assert.False(t, report.Settled["2040"])
}
