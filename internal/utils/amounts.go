package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitsPerMajor is the paise-per-rupee factor for INR.
const minorUnitsPerMajor = 100

// MinorToMajor converts an amount in minor units (paise) to major units (rupees).
// Example: 100000 returns 1000
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(minorUnitsPerMajor))
}

// MajorToMinor converts a major-unit amount to minor units. Amounts with more
// precision than one paisa are rejected rather than rounded.
func MajorToMinor(major decimal.Decimal) (int64, error) {
	minor := major.Mul(decimal.NewFromInt(minorUnitsPerMajor))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has sub-paisa precision", major.String())
	}
	return minor.IntPart(), nil
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
