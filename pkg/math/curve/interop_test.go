package curve

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarFromInt(t *testing.T) {
	n := OrderInt()
	tests := []struct {
		name string
		x    *big.Int
		want *big.Int
	}{
		{"zero", big.NewInt(0), big.NewInt(0)},
		{"small", big.NewInt(514), big.NewInt(514)},
		{"minus one", big.NewInt(-1), new(big.Int).Sub(n, big.NewInt(1))},
		{"order", n, big.NewInt(0)},
		{"order plus one", new(big.Int).Add(n, big.NewInt(1)), big.NewInt(1)},
		{"minus order", new(big.Int).Neg(n), big.NewInt(0)},
		{"oversized", new(big.Int).Lsh(big.NewInt(1), 600), new(big.Int).Mod(new(big.Int).Lsh(big.NewInt(1), 600), n)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, tt.want.Cmp(ScalarFromInt(tt.x).Int()))
		})
	}
}

func TestScalarFromInt_RoundTrip(t *testing.T) {
	n := OrderInt()
	bound := new(big.Int).Lsh(big.NewInt(1), 512)
	for i := 0; i < 100; i++ {
		x, err := rand.Int(rand.Reader, bound)
		require.NoError(t, err)
		if i%2 == 1 {
			x.Neg(x)
		}
		want := new(big.Int).Mod(x, n)
		assert.Equal(t, 0, want.Cmp(ScalarFromInt(x).Int()))
	}
}

func TestScalarFromInt_Arithmetic(t *testing.T) {
	n := OrderInt()

	s := randomScalar(t)
	x := s.Int()
	assert.True(t, ScalarFromInt(x).Equal(s))

	s.Multiply(s, NewScalarUInt32(114))
	x.Mul(x, big.NewInt(114)).Mod(x, n)
	assert.True(t, ScalarFromInt(x).Equal(s))

	s.Add(s, NewScalarUInt32(514))
	x.Add(x, big.NewInt(514)).Mod(x, n)
	assert.True(t, ScalarFromInt(x).Equal(s))
}

func TestFixedWidth(t *testing.T) {
	short := fixedWidth([]byte{1, 2})
	assert.Equal(t, byte(1), short[ScalarBytes-2])
	assert.Equal(t, byte(2), short[ScalarBytes-1])
	assert.Equal(t, make([]byte, ScalarBytes-2), short[:ScalarBytes-2])

	long := make([]byte, ScalarBytes+3)
	long[0] = 0xff
	long[len(long)-1] = 7
	truncated := fixedWidth(long)
	assert.Equal(t, byte(7), truncated[ScalarBytes-1])
	assert.Equal(t, byte(0), truncated[0])
}
