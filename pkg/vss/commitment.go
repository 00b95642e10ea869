package vss

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/pool"
)

var ErrModulus = errors.New("vss: polynomial is not defined over the group order")

// Commitment represents a polynomial whose coefficients are points on the curve,
//
//	F(X) = [a₀ + a₁⋅X + … + aₜ₋₁⋅Xᵗ⁻¹]⋅G,
//
// so that F(x) = f(x)⋅G for the committed polynomial f.
type Commitment struct {
	coefficients []*curve.Point
}

// Commit returns the Commitment [a₀⋅G, …, aₜ₋₁⋅G] to f.
// The scalar multiplications are spread over pl, which may be nil.
func Commit(f *polynomial.Polynomial, pl *pool.Pool) (*Commitment, error) {
	if f.Modulus().Cmp(curve.OrderInt()) != 0 {
		return nil, ErrModulus
	}
	coefficients := f.Coefficients()
	results := pl.Parallelize(len(coefficients), func(i int) interface{} {
		return curve.ScalarFromInt(coefficients[i]).ActOnBase()
	})
	c := &Commitment{coefficients: make([]*curve.Point, len(results))}
	for i, r := range results {
		c.coefficients[i] = r.(*curve.Point)
	}
	return c, nil
}

// NewCommitment returns a Commitment holding copies of the given points, in ascending order.
func NewCommitment(points []*curve.Point) *Commitment {
	c := &Commitment{coefficients: make([]*curve.Point, len(points))}
	for i, p := range points {
		c.coefficients[i] = curve.NewIdentityPoint().Set(p)
	}
	return c
}

// Evaluate returns F(id) = f(id)⋅G.
func (c *Commitment) Evaluate(id party.ID) *curve.Point {
	return c.evaluateHorner(curve.ScalarFromInt(id.Int()))
}

// evaluateHorner computes F(x) = (…(Aₜ₋₁⋅x + Aₜ₋₂)⋅x + …)⋅x + A₀.
func (c *Commitment) evaluateHorner(x *curve.Scalar) *curve.Point {
	result := curve.NewIdentityPoint()
	for i := len(c.coefficients) - 1; i >= 0; i-- {
		// Bₙ₋₁ = [x]Bₙ + Aₙ₋₁
		result.ScalarMult(x, result)
		result.Add(result, c.coefficients[i])
	}
	return result
}

// evaluateClassic computes F(x) = ∑ₖ [xᵏ]Aₖ, each power reduced mod the group order.
func (c *Commitment) evaluateClassic(x *curve.Scalar) *curve.Point {
	var tmp curve.Point
	power := curve.NewScalarUInt32(1)
	result := curve.NewIdentityPoint()
	for _, a := range c.coefficients {
		tmp.ScalarMult(power, a)
		result.Add(result, &tmp)
		power.Multiply(power, x)
	}
	return result
}

// Constant returns a copy of A₀ = a₀⋅G, the public key contribution of the dealer.
func (c *Commitment) Constant() *curve.Point {
	return curve.NewIdentityPoint().Set(c.coefficients[0])
}

// Points returns copies of the committed points, in ascending order.
func (c *Commitment) Points() []*curve.Point {
	out := make([]*curve.Point, len(c.coefficients))
	for i, p := range c.coefficients {
		out[i] = curve.NewIdentityPoint().Set(p)
	}
	return out
}

// Len is the number of committed coefficients, which must equal the threshold.
func (c *Commitment) Len() int {
	return len(c.coefficients)
}

// Degree is the degree of the committed polynomial.
func (c *Commitment) Degree() int {
	return len(c.coefficients) - 1
}

// Equal returns true if both commitments hold the same points.
func (c *Commitment) Equal(other *Commitment) bool {
	if len(c.coefficients) != len(other.coefficients) {
		return false
	}
	for i := range c.coefficients {
		if !curve.DigestEqual(c.coefficients[i], other.coefficients[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of c.
func (c *Commitment) Copy() *Commitment {
	return NewCommitment(c.coefficients)
}

// Sum returns the coefficient-wise sum of commitments, which commits to the sum of the polynomials.
func Sum(commitments []*Commitment) (*Commitment, error) {
	if len(commitments) == 0 {
		return nil, errors.New("vss.Sum: no commitments")
	}
	summed := commitments[0].Copy()
	for _, other := range commitments[1:] {
		if len(other.coefficients) != len(summed.coefficients) {
			return nil, fmt.Errorf("%w: cannot add %d to %d coefficients", ErrCommitmentLength, len(other.coefficients), len(summed.coefficients))
		}
		for i := range summed.coefficients {
			summed.coefficients[i].Add(summed.coefficients[i], other.coefficients[i])
		}
	}
	return summed, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Commitment) MarshalBinary() ([]byte, error) {
	points := make([][]byte, len(c.coefficients))
	for i, p := range c.coefficients {
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("vss.Commitment.MarshalBinary: %w", err)
		}
		points[i] = data
	}
	return cbor.Marshal(points)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (c *Commitment) UnmarshalBinary(data []byte) error {
	var points [][]byte
	if err := cbor.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("vss.Commitment.UnmarshalBinary: %w", err)
	}
	if len(points) == 0 {
		return errors.New("vss.Commitment.UnmarshalBinary: empty commitment")
	}
	coefficients := make([]*curve.Point, len(points))
	for i, b := range points {
		coefficients[i] = curve.NewIdentityPoint()
		if err := coefficients[i].UnmarshalBinary(b); err != nil {
			return fmt.Errorf("vss.Commitment.UnmarshalBinary: coefficient %d: %w", i, err)
		}
	}
	c.coefficients = coefficients
	return nil
}
