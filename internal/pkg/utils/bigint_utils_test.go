package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBigInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{nil, 18, "0"},
		{big.NewInt(0), 9, "0"},
		{big.NewInt(1), 18, "0.000000000000000001"},
		{big.NewInt(1234500000000000000), 18, "1.2345"},
		{big.NewInt(850), 8, "0.0000085"},
		{big.NewInt(42), 0, "42"},
		{big.NewInt(-1500000000), 9, "-1.5"},
		{big.NewInt(3000000000), 9, "3"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBigInt(tc.amount, tc.decimals))
	}
}

func TestToUIAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ToUIAmount(nil, 9))
	assert.Equal(t, 1.5, ToUIAmount(big.NewInt(1500000000), 9))
	assert.Equal(t, 0.3, ToUIAmount(big.NewInt(3), 1))
	assert.Equal(t, 12.0, ToUIAmount(big.NewInt(12), 0))
}

func TestParseRawAmount(t *testing.T) {
	t.Parallel()

	n, ok := ParseRawAmount(" 18446744073709551616 ")
	assert.True(t, ok)
	assert.Equal(t, "18446744073709551616", n.String())

	for _, bad := range []string{"", "1.5", "-3", "0x10", "abc"} {
		_, ok := ParseRawAmount(bad)
		assert.False(t, ok, bad)
	}
}
