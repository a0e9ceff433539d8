// internal/money/money.go
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in minor currency units (e.g. KRW won, USD cents).
// All arithmetic on ledger values goes through this type; float64 never touches
// a persisted amount.
type Amount int64

func (a Amount) Int64() int64 {
	return int64(a)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

func (a Amount) Neg() Amount {
	return -a
}

func (a Amount) Add(b Amount) Amount {
	return a + b
}

func (a Amount) Sub(b Amount) Amount {
	return a - b
}

func (a Amount) String() string {
	return fmt.Sprintf("%d", int64(a))
}

// ValidRate reports whether r is a usable fee rate.
func ValidRate(r float64) bool {
	return r >= 0 && r <= 1
}

// ApplyRate computes round(a × rate) with half-up rounding.
func ApplyRate(a Amount, rate float64) Amount {
	fee := decimal.NewFromInt(int64(a)).
		Mul(decimal.NewFromFloat(rate)).
		Round(0)
	return Amount(fee.IntPart())
}

// SplitFee returns the fee share and the remaining net for a gross amount.
// fee + net always equals gross.
func SplitFee(gross Amount, rate float64) (fee, net Amount) {
	fee = ApplyRate(gross, rate)
	return fee, gross - fee
}
