package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// USDCDecimals is the decimal precision of the USDC token contracts the
// server prices routes in.
const USDCDecimals = 6

// ValidateAmount checks that an amount string is a non-negative decimal.
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return &dec, nil
}

// ParseAmountWithDecimals parses a decimal amount string and converts it to
// atomic units with the given precision (e.g. "0.001" at 6 decimals -> 1000).
func ParseAmountWithDecimals(amount string, decimals int) (*big.Int, error) {
	dec, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	multiplier := decimal.NewFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil), 0)
	result := dec.Mul(multiplier)

	if !result.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}

	return result.BigInt(), nil
}

// AtomicAmount formats a decimal amount string as an atomic-unit string.
func AtomicAmount(amount string, decimals int) (string, error) {
	v, err := ParseAmountWithDecimals(amount, decimals)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// FormatAmountFromBigInt formats an atomic-unit amount back to a decimal
// string with the given precision.
func FormatAmountFromBigInt(amount *big.Int, decimals int) string {
	dec := decimal.NewFromBigInt(amount, -int32(decimals))
	return dec.String()
}
