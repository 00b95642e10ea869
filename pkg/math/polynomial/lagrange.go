package polynomial

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/taurusgroup/feldman-vss/pkg/math/modular"
	"github.com/taurusgroup/feldman-vss/pkg/party"
)

var ErrDuplicateID = errors.New("polynomial: duplicate share ID")

// Lagrange returns the Lagrange coefficients at 0 for all parties in the interpolation domain.
//
// The following formulas are taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
//	λᵢ = ∏ⱼ≠ᵢ xⱼ/(xⱼ - xᵢ) mod p
func Lagrange(interpolationDomain []party.ID, p *big.Int) (map[party.ID]*big.Int, error) {
	if p.Cmp(big.NewInt(1)) <= 0 {
		return nil, ErrInvalidModulus
	}
	coefficients := make(map[party.ID]*big.Int, len(interpolationDomain))
	for _, i := range interpolationDomain {
		if _, ok := coefficients[i]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateID, i)
		}
		coefficients[i] = nil
	}

	for _, i := range interpolationDomain {
		xI := i.Int()
		lambda := big.NewInt(1)
		for _, j := range interpolationDomain {
			if i == j {
				continue
			}
			xJ := j.Int()
			frac, err := modular.Div(xJ, new(big.Int).Sub(xJ, xI), p)
			if err != nil {
				return nil, fmt.Errorf("polynomial.Lagrange: %w", err)
			}
			lambda.Mul(lambda, frac)
			lambda.Mod(lambda, p)
		}
		coefficients[i] = lambda
	}
	return coefficients, nil
}

// Interpolate returns f(0) for the polynomial going through the given shares.
//
// The result is only meaningful if at least t shares are given, where t is the threshold
// the shares were generated with. Fewer shares yield an unrelated value without error.
func Interpolate(shares []Share, p *big.Int) (*big.Int, error) {
	ids := make([]party.ID, len(shares))
	for i, s := range shares {
		ids[i] = s.ID
	}
	lambdas, err := Lagrange(ids, p)
	if err != nil {
		return nil, err
	}

	sum := new(big.Int)
	tmp := new(big.Int)
	for _, s := range shares {
		tmp.Mul(s.Value, lambdas[s.ID])
		sum.Add(sum, tmp)
		sum.Mod(sum, p)
	}
	return sum, nil
}
