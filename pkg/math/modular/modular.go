package modular

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrPrecondition is returned when an operation is called outside of its domain.
	// It always indicates a programming or configuration error.
	ErrPrecondition = errors.New("modular: arithmetic precondition violated")
	// ErrZeroModulus is returned when the modulus is 0.
	ErrZeroModulus = fmt.Errorf("%w: zero modulus", ErrPrecondition)
	// ErrNotInvertible is returned when an element shares a factor with the modulus.
	ErrNotInvertible = fmt.Errorf("%w: element is not invertible", ErrPrecondition)
)

var one = big.NewInt(1)

// Mod returns x mod p in [0, |p|).
func Mod(x, p *big.Int) (*big.Int, error) {
	if p.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	return new(big.Int).Mod(x, p), nil
}

// Inverse returns x ∈ [0, p) such that a⋅x ≡ 1 (mod p).
func Inverse(a, p *big.Int) (*big.Int, error) {
	if p.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	e := ExtendedEuclidean(a, p)
	x := e.X
	switch {
	case e.GCD.Cmp(one) == 0:
	case e.GCD.CmpAbs(one) == 0:
		// a⋅x + p⋅y = -1
		x = new(big.Int).Neg(x)
	default:
		return nil, fmt.Errorf("%w: gcd(%v, %v) = %v", ErrNotInvertible, a, p, e.GCD)
	}
	return x.Mod(x, p), nil
}

// Div returns a/b mod p.
//
// a and b are first divided by their gcd, so that exact divisions such as 28/8
// do not require b itself to be invertible modulo p.
func Div(a, b, p *big.Int) (*big.Int, error) {
	if p.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	e := ExtendedEuclidean(a, b)
	if e.ReducedB.Cmp(one) == 0 {
		return new(big.Int).Mod(e.ReducedA, p), nil
	}
	bInv, err := Inverse(e.ReducedB, p)
	if err != nil {
		return nil, fmt.Errorf("modular.Div: %w", err)
	}
	res := new(big.Int).Mul(e.ReducedA, bInv)
	return res.Mod(res, p), nil
}

// Pow returns base^exp mod p using square-and-multiply.
//
// A negative exponent inverts the base first, so base must then be invertible modulo p.
func Pow(base, exp, p *big.Int) (*big.Int, error) {
	if p.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	b := new(big.Int).Mod(base, p)
	e := new(big.Int).Set(exp)
	if e.Sign() < 0 {
		inv, err := Inverse(b, p)
		if err != nil {
			return nil, fmt.Errorf("modular.Pow: negative exponent: %w", err)
		}
		b = inv
		e.Neg(e)
	}

	y := new(big.Int).Mod(one, p)
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			y.Mul(y, b)
			y.Mod(y, p)
		}
		// b = base^(2^(i+1)) mod p
		b.Mul(b, b)
		b.Mod(b, p)
	}
	return y, nil
}
