// Package money parses the amounts typed into the shop's entry forms.
//
// Amounts are decimals rounded to two places. Thousands separators and a
// leading rupee sign are tolerated ("₹1,20,000.50").
package money

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountTooLarge = errors.New("amount must be less than 10,000,000,000")
)

// Limit bounds every stored amount; ledger columns are numeric(12,2).
var Limit = decimal.New(1, 10)

// Exponents outside this range are refused before rounding. Above it a
// non-zero amount is over Limit; below it no amount is meaningful.
const (
	maxExponent = 10
	minExponent = -20
)

// Parse converts s to a two-place decimal below Limit.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	switch exp := d.Exponent(); {
	case exp > maxExponent:
		return decimal.Zero, errors.Wrapf(ErrAmountTooLarge, "%q", s)
	case exp < minExponent:
		return decimal.Zero, errors.Wrapf(ErrInvalidAmount, "%q", s)
	}

	d = d.Round(2)
	if err := CheckLimit(d); err != nil {
		return decimal.Zero, errors.Wrapf(err, "%q", s)
	}
	return d, nil
}

// CheckLimit fails for amounts, positive or negative, that do not fit a
// ledger column.
func CheckLimit(d decimal.Decimal) error {
	if d.Abs().Cmp(Limit) >= 0 {
		return ErrAmountTooLarge
	}
	return nil
}

// OrZero is Parse with absent or unparsable input read as zero. Amounts over
// Limit still fail.
func OrZero(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if errors.Is(err, ErrAmountTooLarge) {
		return decimal.Zero, err
	}
	if err != nil {
		return decimal.Zero, nil
	}
	return d, nil
}

// Positive parses a line-item amount. ok is false for input that is not a
// number above zero; amounts over Limit fail.
func Positive(s string) (d decimal.Decimal, ok bool, err error) {
	d, err = OrZero(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	if !d.IsPositive() {
		return decimal.Zero, false, nil
	}
	return d, true, nil
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Format renders a stored amount for API responses.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
