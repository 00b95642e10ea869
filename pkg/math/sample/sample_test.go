package sample

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"golang.org/x/sync/errgroup"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	x := ModN(rand.Reader, n)
	_, _, lt := x.CmpMod(n)
	if lt != 1 {
		t.Errorf("ModN generated a number >= %v: %v", x, n)
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi *big.Int
	}{
		{"unit", big.NewInt(1), big.NewInt(2)},
		{"small", big.NewInt(1), big.NewInt(17)},
		{"negative", big.NewInt(-100), big.NewInt(-3)},
		{"mersenne", big.NewInt(1), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				x := IntRange(rand.Reader, tt.lo, tt.hi)
				assert.True(t, x.Cmp(tt.lo) >= 0, "%v < %v", x, tt.lo)
				assert.True(t, x.Cmp(tt.hi) < 0, "%v >= %v", x, tt.hi)
			}
		})
	}

	assert.Panics(t, func() { IntRange(rand.Reader, big.NewInt(3), big.NewInt(3)) })
}

func TestIntRange_Covers(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		seen[IntRange(rand.Reader, big.NewInt(1), big.NewInt(5)).Int64()] = true
	}
	assert.Len(t, seen, 4)
}

func TestScalar(t *testing.T) {
	assert.False(t, ScalarUnit(rand.Reader).IsZero())
	assert.False(t, Scalar(rand.Reader).Equal(Scalar(rand.Reader)))
}

func TestMustReadBits(t *testing.T) {
	assert.Panics(t, func() { Scalar(bytes.NewReader(nil)) })
}

// Parties sample their secrets concurrently, while others reduce integers modulo the same order.
func TestScalar_Concurrent(t *testing.T) {
	n := curve.OrderInt()
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				if ScalarUnit(rand.Reader).IsZero() {
					return errors.New("ScalarUnit returned zero")
				}
				x := ModN(rand.Reader, curve.Order()).Big()
				if x.Cmp(n) >= 0 {
					return fmt.Errorf("ModN returned %v >= order", x)
				}
				if curve.ScalarFromInt(new(big.Int).Neg(x)).Int().Cmp(new(big.Int).Mod(new(big.Int).Neg(x), n)) != 0 {
					return errors.New("ScalarFromInt does not reduce modulo the order")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
