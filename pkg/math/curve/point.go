package curve

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Point is an element of the secp256k1 group, in Jacobian coordinates.
//
// The zero value is the identity.
type Point struct {
	p secp256k1.JacobianPoint
}

// NewIdentityPoint returns the identity element.
func NewIdentityPoint() *Point {
	var v Point
	return &v
}

// NewBasePoint returns the canonical generator G.
func NewBasePoint() *Point {
	return NewIdentityPoint().ScalarBaseMult(NewScalarUInt32(1))
}

// Set sets v = u, and returns v.
func (v *Point) Set(u *Point) *Point {
	v.p.Set(&u.p)
	return v
}

// Add sets v = p + q, and returns v.
func (v *Point) Add(p, q *Point) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.p, &q.p, &r)
	v.p = r
	return v
}


// ScalarBaseMult sets v = x⋅G, and returns v.
func (v *Point) ScalarBaseMult(x *Scalar) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&x.s, &r)
	v.p = r
	return v
}

// ScalarMult sets v = x⋅q, and returns v.
func (v *Point) ScalarMult(x *Scalar, q *Point) *Point {
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&x.s, &q.p, &r)
	v.p = r
	return v
}

// IsIdentity returns true if the point is ∞.
func (v *Point) IsIdentity() bool {
	return (v.p.X.IsZero() && v.p.Y.IsZero()) || v.p.Z.IsZero()
}

// Equal returns true if v and u represent the same group element.
func (v *Point) Equal(u *Point) bool {
	if v.IsIdentity() || u.IsIdentity() {
		return v.IsIdentity() && u.IsIdentity()
	}
	a, b := v.affine(), u.affine()
	return a.X.Equals(&b.X) && a.Y.Equals(&b.Y)
}

// affine returns a normalized copy of v with Z = 1.
func (v *Point) affine() secp256k1.JacobianPoint {
	var a secp256k1.JacobianPoint
	a.Set(&v.p)
	a.ToAffine()
	return a
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// A non-identity point is written in 33 byte compressed SEC1 form.
// The identity is written as the single byte 0x00.
func (v *Point) MarshalBinary() ([]byte, error) {
	if v.IsIdentity() {
		return []byte{0}, nil
	}
	a := v.affine()
	out := make([]byte, PointBytes)
	if a.Y.IsOdd() {
		out[0] = secp256k1.PubKeyFormatCompressedOdd
	} else {
		out[0] = secp256k1.PubKeyFormatCompressedEven
	}
	a.X.PutBytesUnchecked(out[1:])
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Point) UnmarshalBinary(data []byte) error {
	if len(data) == 1 && data[0] == 0 {
		v.p = secp256k1.JacobianPoint{}
		return nil
	}
	if len(data) != PointBytes {
		return fmt.Errorf("curve.Point.UnmarshalBinary: invalid length %d", len(data))
	}
	var odd bool
	switch data[0] {
	case secp256k1.PubKeyFormatCompressedEven:
	case secp256k1.PubKeyFormatCompressedOdd:
		odd = true
	default:
		return fmt.Errorf("curve.Point.UnmarshalBinary: invalid format byte 0x%02x", data[0])
	}

	var p secp256k1.JacobianPoint
	if p.X.SetByteSlice(data[1:]) {
		return fmt.Errorf("curve.Point.UnmarshalBinary: x coordinate out of range")
	}
	if !secp256k1.DecompressY(&p.X, odd, &p.Y) {
		return fmt.Errorf("curve.Point.UnmarshalBinary: x coordinate not on curve")
	}
	p.Y.Normalize()
	p.Z.SetInt(1)
	v.p = p
	return nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (v *Point) WriteTo(w io.Writer) (int64, error) {
	data, err := v.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Point) Domain() string {
	return "curve.Point"
}
