package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// safeAmount coerces values that cannot take part in fee math to zero.
func safeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(safeAmount(v))
}

func roundMoney(d decimal.Decimal) float64 {
	f, _ := d.Round(0).Float64()
	return f
}

func roundPercent(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// ParseContractNumber returns the numeric value of a contract number such as "1086"
// or "#1086". Anything unparsable orders as 0.
func ParseContractNumber(raw string) int64 {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
