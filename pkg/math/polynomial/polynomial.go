package polynomial

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/feldman-vss/pkg/math/modular"
	"github.com/taurusgroup/feldman-vss/pkg/math/sample"
	"github.com/taurusgroup/feldman-vss/pkg/party"
)

var (
	ErrInvalidModulus   = fmt.Errorf("polynomial: %w: modulus must be greater than 1", modular.ErrPrecondition)
	ErrInvalidThreshold = errors.New("polynomial: invalid threshold")
)

// Mersenne127 returns the prime 2¹²⁷ - 1.
func Mersenne127() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 127)
	return p.Sub(p, big.NewInt(1))
}

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ₋₁⋅Xᵗ⁻¹ over ℤₚ.
//
// The polynomial has t coefficients, where t is the threshold of the sharing.
type Polynomial struct {
	modulus      *big.Int
	coefficients []*big.Int
}

// NewPolynomial generates a Polynomial f(X) = secret + a₁⋅X + … + aₜ₋₁⋅Xᵗ⁻¹,
// with every aᵢ sampled uniformly in [1, p).
func NewPolynomial(rand io.Reader, threshold int, secret, p *big.Int) (*Polynomial, error) {
	if p.Cmp(big.NewInt(1)) <= 0 {
		return nil, ErrInvalidModulus
	}
	if threshold < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}
	coefficients := make([]*big.Int, threshold)
	coefficients[0] = new(big.Int).Mod(secret, p)
	one := big.NewInt(1)
	for i := 1; i < threshold; i++ {
		coefficients[i] = sample.IntRange(rand, one, p)
	}
	return &Polynomial{
		modulus:      new(big.Int).Set(p),
		coefficients: coefficients,
	}, nil
}

// FromCoefficients returns the polynomial with the given coefficients, in ascending order.
// Each coefficient is reduced modulo p.
func FromCoefficients(coefficients []*big.Int, p *big.Int) (*Polynomial, error) {
	if p.Cmp(big.NewInt(1)) <= 0 {
		return nil, ErrInvalidModulus
	}
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", ErrInvalidThreshold)
	}
	reduced := make([]*big.Int, len(coefficients))
	for i, c := range coefficients {
		reduced[i] = new(big.Int).Mod(c, p)
	}
	return &Polynomial{
		modulus:      new(big.Int).Set(p),
		coefficients: reduced,
	}, nil
}

// Evaluate evaluates the polynomial at x, reducing every intermediate step mod p.
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	result := new(big.Int)
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.Mul(result, x)
		result.Add(result, p.coefficients[i])
		result.Mod(result, p.modulus)
	}
	return result
}

// Share returns the share (id, f(id)).
func (p *Polynomial) Share(id party.ID) Share {
	return Share{ID: id, Value: p.Evaluate(id.Int())}
}

// Constant returns a copy of the constant coefficient, which is the shared secret.
func (p *Polynomial) Constant() *big.Int {
	return new(big.Int).Set(p.coefficients[0])
}

// Coefficients returns a copy of the coefficients, in ascending order.
func (p *Polynomial) Coefficients() []*big.Int {
	out := make([]*big.Int, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = new(big.Int).Set(c)
	}
	return out
}

// Modulus returns a copy of p.
func (p *Polynomial) Modulus() *big.Int {
	return new(big.Int).Set(p.modulus)
}

// Threshold is the number of coefficients, and the number of shares needed to recover the constant.
func (p *Polynomial) Threshold() int {
	return len(p.coefficients)
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}
