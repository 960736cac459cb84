package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/billboards-ops/internal/model"
)

// ContractFees is the fee-relevant projection of a contract.
type ContractFees struct {
	Contract model.Contract
	// Number is the parsed contract number used for ordering.
	Number      int64
	TotalAmount float64
	// CollectionRatio is paid/total as stored, possibly above 1.
	CollectionRatio float64
	// CollectionPercentage is clamped to [0, 100].
	CollectionPercentage float64
	FullFee              float64
	CollectedFee         float64
}

func ComputeFees(c model.Contract) ContractFees {
	rent := money(c.RentCost)
	installation := money(c.InstallationCost)
	printing := money(c.PrintCost)
	total := rent.Add(installation).Add(printing)

	rawRatio := decimal.Zero
	paymentRatio := decimal.Zero
	if total.IsPositive() {
		rawRatio = money(c.TotalPaid).Div(total)
		paymentRatio = decimal.Min(rawRatio, one)
	}

	return ContractFees{
		Contract:             c,
		Number:               ParseContractNumber(c.Number),
		TotalAmount:          toFloat(total),
		CollectionRatio:      toFloat(rawRatio),
		CollectionPercentage: roundPercent(decimal.Min(rawRatio.Mul(hundred), hundred)),
		FullFee:              toFloat(feeAt(c, rent, installation, printing, one)),
		CollectedFee:         toFloat(feeAt(c, rent, installation, printing, paymentRatio)),
	}
}

func feeAt(c model.Contract, rent, installation, printing, ratio decimal.Decimal) decimal.Decimal {
	fee := feePortion(rent, ratio, c.RentFeeRate)
	if c.IncludeInstallationInFee {
		fee = fee.Add(feePortion(installation, ratio, c.InstallationFeeRate))
	}
	if c.IncludePrintInFee {
		fee = fee.Add(feePortion(printing, ratio, c.PrintFeeRate))
	}
	return fee
}

func feePortion(cost, ratio decimal.Decimal, rate float64) decimal.Decimal {
	return cost.Mul(ratio).Mul(money(rate)).Div(hundred).Round(0)
}
