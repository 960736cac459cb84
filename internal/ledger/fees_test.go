package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/billboards-ops/internal/ledger"
	"github.com/nurpe/billboards-ops/internal/model"
)

func TestComputeFees_PartialPayment(t *testing.T) {
	fees := ledger.ComputeFees(model.Contract{
		Number:      "1086",
		RentCost:    1000,
		RentFeeRate: 10,
		TotalPaid:   500,
	})

	assert.Equal(t, int64(1086), fees.Number)
	assert.Equal(t, 1000.0, fees.TotalAmount)
	assert.Equal(t, 50.0, fees.CollectedFee)
	assert.Equal(t, 100.0, fees.FullFee)
	assert.Equal(t, 50.0, fees.CollectionPercentage)
}

func TestComputeFees_IncludeFlags(t *testing.T) {
	base := model.Contract{
		Number:              "1",
		RentCost:            1000,
		InstallationCost:    200,
		PrintCost:           300,
		RentFeeRate:         10,
		InstallationFeeRate: 50,
		PrintFeeRate:        20,
		TotalPaid:           1500,
	}

	fees := ledger.ComputeFees(base)
	assert.Equal(t, 1500.0, fees.TotalAmount)
	assert.Equal(t, 100.0, fees.CollectedFee)

	base.IncludeInstallationInFee = true
	base.IncludePrintInFee = true
	fees = ledger.ComputeFees(base)
	assert.Equal(t, 100.0+100.0+60.0, fees.CollectedFee)
	assert.Equal(t, fees.FullFee, fees.CollectedFee)
}

func TestComputeFees_ZeroTotal(t *testing.T) {
	fees := ledger.ComputeFees(model.Contract{
		Number:      "7",
		RentFeeRate: 10,
		TotalPaid:   900,
	})

	assert.Zero(t, fees.TotalAmount)
	assert.Zero(t, fees.CollectionRatio)
	assert.Zero(t, fees.CollectionPercentage)
	assert.Zero(t, fees.FullFee)
	assert.Zero(t, fees.CollectedFee)
}

func TestComputeFees_OverpaymentIsCapped(t *testing.T) {
	fees := ledger.ComputeFees(model.Contract{
		Number:      "12",
		RentCost:    1000,
		RentFeeRate: 10,
		TotalPaid:   1500,
	})

	assert.Equal(t, 1.5, fees.CollectionRatio)
	assert.Equal(t, 100.0, fees.CollectionPercentage)
	assert.Equal(t, 100.0, fees.CollectedFee)
	assert.Equal(t, fees.FullFee, fees.CollectedFee)
}

func TestComputeFees_InvalidInputsCoerceToZero(t *testing.T) {
	fees := ledger.ComputeFees(model.Contract{
		Number:           "abc",
		RentCost:         math.NaN(),
		InstallationCost: math.Inf(1),
		PrintCost:        -50,
		RentFeeRate:      10,
		TotalPaid:        math.NaN(),
	})

	assert.Zero(t, fees.Number)
	assert.Zero(t, fees.TotalAmount)
	assert.Zero(t, fees.CollectedFee)
}

func TestComputeFees_CollectedNeverExceedsFull(t *testing.T) {
	paid := []float64{0, 1, 333, 999, 1000, 1234, 5000}
	rates := []float64{0, 3.5, 10, 12.5, 33}
	for _, p := range paid {
		for _, r := range rates {
			fees := ledger.ComputeFees(model.Contract{
				Number:                   "1",
				RentCost:                 777,
				InstallationCost:         123,
				PrintCost:                101,
				IncludeInstallationInFee: true,
				IncludePrintInFee:        true,
				RentFeeRate:              r,
				InstallationFeeRate:      r,
				PrintFeeRate:             r,
				TotalPaid:                p,
			})
			require.LessOrEqual(t, fees.CollectedFee, fees.FullFee, "paid=%v rate=%v", p, r)
			require.GreaterOrEqual(t, fees.CollectionPercentage, 0.0)
			require.LessOrEqual(t, fees.CollectionPercentage, 100.0)
		}
	}
}

func TestParseContractNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1086", 1086},
		{" #1090 ", 1090},
		{"", 0},
		{"N-12", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ledger.ParseContractNumber(tt.input), tt.input)
	}
}
