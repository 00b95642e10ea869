package modular

import "math/big"

// Euclid is the output of the extended Euclidean algorithm on (a, b).
//
//	GCD = a⋅X + b⋅Y
//	a = |GCD|⋅ReducedA, b = |GCD|⋅ReducedB
//
// GCD is negative only when it is a negative input itself, as in (6, -3) where GCD = -3.
// When |GCD| = 1, a⋅X ≡ GCD (mod b) and b⋅Y ≡ GCD (mod a).
type Euclid struct {
	GCD *big.Int
	// X and Y are the Bézout coefficients.
	X, Y *big.Int
	// ReducedA carries the sign of a, ReducedB the sign of b.
	ReducedA, ReducedB *big.Int
}

// step holds rₖ = a⋅xₖ + b⋅yₖ.
type step struct {
	r, x, y *big.Int
}

// ExtendedEuclidean runs the iterative extended Euclidean algorithm, using
// Euclidean division so that every remainder is non-negative.
func ExtendedEuclidean(a, b *big.Int) Euclid {
	prev := step{r: new(big.Int).Set(a), x: big.NewInt(1), y: big.NewInt(0)}
	curr := step{r: new(big.Int).Set(b), x: big.NewInt(0), y: big.NewInt(1)}

	q, r := new(big.Int), new(big.Int)
	for curr.r.Sign() != 0 {
		q.DivMod(prev.r, curr.r, r)
		next := step{
			r: new(big.Int).Set(r),
			x: new(big.Int).Sub(prev.x, new(big.Int).Mul(q, curr.x)),
			y: new(big.Int).Sub(prev.y, new(big.Int).Mul(q, curr.y)),
		}
		prev, curr = curr, next
	}

	// the last coefficients are ±b/gcd and ∓a/gcd
	if (a.Sign() < 0) != (curr.y.Sign() < 0) {
		curr.y.Neg(curr.y)
	}
	if (b.Sign() < 0) != (curr.x.Sign() < 0) {
		curr.x.Neg(curr.x)
	}
	return Euclid{
		GCD:      prev.r,
		X:        prev.x,
		Y:        prev.y,
		ReducedA: curr.y,
		ReducedB: curr.x,
	}
}
