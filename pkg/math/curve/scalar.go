package curve

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Scalar is an element of ℤₙ, where n is the order of the group.
type Scalar struct {
	s secp256k1.ModNScalar
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarUInt32 returns a new Scalar set to x.
func NewScalarUInt32(x uint32) *Scalar {
	var s Scalar
	s.s.SetInt(x)
	return &s
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	s.s.Set(&x.s)
	return s
}

// Add sets s = x + y mod n, and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	s.s.Add2(&x.s, &y.s)
	return s
}

// Multiply sets s = x * y mod n, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	s.s.Mul2(&x.s, &y.s)
	return s
}

// Equal returns true if s == x.
func (s *Scalar) Equal(x *Scalar) bool {
	return s.s.Equals(&x.s)
}

// IsZero returns true if s == 0.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero()
}

// ActOnBase returns s⋅G.
func (s *Scalar) ActOnBase() *Point {
	return NewIdentityPoint().ScalarBaseMult(s)
}

// Bytes returns the big-endian encoding of s.
func (s *Scalar) Bytes() [ScalarBytes]byte {
	return s.s.Bytes()
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	data := s.s.Bytes()
	return data[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The data must be a canonical encoding, strictly less than the order.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != ScalarBytes {
		return fmt.Errorf("curve.Scalar.UnmarshalBinary: invalid length %d", len(data))
	}
	var exactData [ScalarBytes]byte
	copy(exactData[:], data)
	if s.s.SetBytes(&exactData) != 0 {
		return fmt.Errorf("curve.Scalar.UnmarshalBinary: value is not reduced")
	}
	return nil
}

// String returns the hexadecimal encoding of s.
func (s Scalar) String() string {
	return s.s.String()
}
