package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// IntRange samples x uniformly in [lo, hi).
// It panics if hi <= lo.
func IntRange(rand io.Reader, lo, hi *big.Int) *big.Int {
	width := new(big.Int).Sub(hi, lo)
	if width.Sign() <= 0 {
		panic(fmt.Sprintf("sample.IntRange: empty range [%v, %v)", lo, hi))
	}
	bits := width.BitLen()
	buf := make([]byte, (bits+7)/8)
	// mask the excess bits of the leading byte, so that a draw is accepted with probability > 1/2
	excess := uint(len(buf)*8 - bits)
	x := new(big.Int)
	for {
		mustReadBits(rand, buf)
		buf[0] &= 0xff >> excess
		x.SetBytes(buf)
		if x.Cmp(width) < 0 {
			return x.Add(x, lo)
		}
	}
}

// Scalar returns a new *curve.Scalar by reading bytes from rand.
func Scalar(rand io.Reader) *curve.Scalar {
	return curve.ScalarFromInt(ModN(rand, curve.Order()).Big())
}

// ScalarUnit returns a new non-zero *curve.Scalar by reading bytes from rand.
func ScalarUnit(rand io.Reader) *curve.Scalar {
	for i := 0; i < maxIterations; i++ {
		s := Scalar(rand)
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}
