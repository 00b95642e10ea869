package polynomial

import (
	"fmt"
	"io"
	"math/big"

	"github.com/taurusgroup/feldman-vss/pkg/party"
)

// Share is a point (ID, f(ID)) on a secret sharing polynomial.
type Share struct {
	ID    party.ID
	Value *big.Int
}

// ShareSecret splits secret into n shares over ℤₚ, any threshold of which recover it.
// Shares are evaluated at the IDs 1, …, n.
func ShareSecret(rand io.Reader, secret *big.Int, threshold, n int, p *big.Int) ([]Share, error) {
	if threshold > n || n > party.MaxID {
		return nil, fmt.Errorf("%w: threshold %d for %d shares", ErrInvalidThreshold, threshold, n)
	}
	f, err := NewPolynomial(rand, threshold, secret, p)
	if err != nil {
		return nil, err
	}
	shares := make([]Share, 0, n)
	for _, id := range party.Range(n) {
		shares = append(shares, f.Share(id))
	}
	return shares, nil
}
