package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	dec, err := ValidateAmount("0.001")
	require.NoError(t, err)
	assert.Equal(t, "0.001", dec.String())

	_, err = ValidateAmount("")
	assert.Error(t, err)

	_, err = ValidateAmount("abc")
	assert.Error(t, err)

	_, err = ValidateAmount("-1")
	assert.Error(t, err)
}

func TestAtomicAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0.001", "1000"},
		{"1", "1000000"},
		{"0.000001", "1"},
		{"2.5", "2500000"},
		{"0", "0"},
	}

	for _, tc := range tests {
		got, err := AtomicAmount(tc.amount, USDCDecimals)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got, tc.amount)
	}
}

func TestAtomicAmountTooPrecise(t *testing.T) {
	_, err := AtomicAmount("0.0000001", USDCDecimals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal places")
}

func TestFormatAmountFromBigInt(t *testing.T) {
	assert.Equal(t, "0.001", FormatAmountFromBigInt(big.NewInt(1000), USDCDecimals))
	assert.Equal(t, "1", FormatAmountFromBigInt(big.NewInt(1000000), USDCDecimals))
}
