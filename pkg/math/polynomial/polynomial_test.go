package polynomial

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomial_Evaluate(t *testing.T) {
	p := big.NewInt(17)
	// f(X) = 3 + 5X + 2X²
	f, err := FromCoefficients([]*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(2)}, p)
	require.NoError(t, err)

	tests := []struct {
		x, want int64
	}{
		{0, 3},
		{1, 10},
		{2, 21 % 17},
		{5, (3 + 25 + 50) % 17},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, big.NewInt(tt.want).String(), f.Evaluate(big.NewInt(tt.x)).String(), "f(%d)", tt.x)
	}
}

func TestNewPolynomial(t *testing.T) {
	p := Mersenne127()
	secret := big.NewInt(1145141919810893)
	f, err := NewPolynomial(rand.Reader, 4, secret, p)
	require.NoError(t, err)

	assert.Equal(t, 4, f.Threshold())
	assert.Equal(t, 3, f.Degree())
	assert.Equal(t, secret.String(), f.Constant().String())
	assert.Equal(t, secret.String(), f.Evaluate(big.NewInt(0)).String())
	for i, c := range f.Coefficients() {
		assert.True(t, c.Cmp(p) < 0)
		if i > 0 {
			assert.True(t, c.Sign() > 0)
		}
	}

	// the returned coefficients are copies
	f.Coefficients()[0].SetInt64(0)
	assert.Equal(t, secret.String(), f.Constant().String())

	_, err = NewPolynomial(rand.Reader, 0, secret, p)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = NewPolynomial(rand.Reader, 3, secret, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidModulus)
}

func TestShareSecret(t *testing.T) {
	p := Mersenne127()
	secret := big.NewInt(1145141919810893)
	shares, err := ShareSecret(rand.Reader, secret, 3, 5, p)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	for i, s := range shares {
		assert.EqualValues(t, i+1, s.ID)
	}

	for k := 3; k <= 5; k++ {
		got, err := Interpolate(shares[:k], p)
		require.NoError(t, err)
		assert.Equal(t, secret.String(), got.String(), "%d shares", k)
	}

	_, err = ShareSecret(rand.Reader, secret, 6, 5, p)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestShareSecret_Modulus(t *testing.T) {
	_, err := ShareSecret(rand.Reader, big.NewInt(1), 2, 3, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidModulus)
}
