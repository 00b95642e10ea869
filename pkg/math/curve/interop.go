package curve

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// ScalarFromInt converts an arbitrary integer to a Scalar.
//
// x is reduced modulo the order (the result is never negative), then
// encoded big-endian into exactly ScalarBytes bytes.
func ScalarFromInt(x *big.Int) *Scalar {
	reduced := new(saferith.Int).SetBig(x, x.BitLen()).Mod(Order())
	buf := fixedWidth(reduced.Big().Bytes())
	var s Scalar
	s.s.SetBytes(&buf)
	return &s
}

// Int returns s as a non-negative integer.
func (s *Scalar) Int() *big.Int {
	data := s.s.Bytes()
	return new(big.Int).SetBytes(data[:])
}

// fixedWidth left-pads b with zeros to ScalarBytes bytes.
// If b is longer, only its low-order ScalarBytes bytes are kept.
func fixedWidth(b []byte) [ScalarBytes]byte {
	var out [ScalarBytes]byte
	if len(b) > ScalarBytes {
		b = b[len(b)-ScalarBytes:]
	}
	copy(out[ScalarBytes-len(b):], b)
	return out
}
