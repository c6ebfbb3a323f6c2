package settlement

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Amounts are stored as DECIMAL(12,2); anything past these bounds cannot be a
// payment and is read as zero.
const (
	maxAmountExponent = 20
	maxAmountDigits   = 40
)

var maxAmount = decimal.New(1, 12)

// ParseAmount reads the payment typed by the driver. Leading numeric text is
// used ("12.5 cash" is 12.5); blank, non-numeric or out-of-range input is
// exactly zero.
func ParseAmount(input string) decimal.Decimal {
	s := strings.TrimSpace(input)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		m := numericPrefix.FindString(s)
		if m == "" {
			return decimal.Zero
		}
		if d, err = decimal.NewFromString(m); err != nil {
			return decimal.Zero
		}
	}
	if !inRange(d) {
		return decimal.Zero
	}
	return d
}

// inRange checks the exponent and digit count before comparing, so huge
// exponents are never expanded.
func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxAmountExponent || exp < -maxAmountExponent {
		return false
	}
	if d.NumDigits() > maxAmountDigits {
		return false
	}
	return d.Abs().Cmp(maxAmount) < 0
}
