package vss

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
)

var (
	// ErrCommitmentLength is returned when a commitment does not have exactly threshold coefficients.
	// A longer commitment would let its dealer silently raise the threshold of the shared key.
	ErrCommitmentLength = errors.New("vss: commitment length does not match threshold")
	// ErrShareVerification is returned when a share is inconsistent with its dealer's commitment.
	ErrShareVerification = errors.New("vss: share does not match commitment")
)

// CheckLength returns ErrCommitmentLength if c does not have exactly threshold coefficients.
func CheckLength(c *Commitment, threshold int) error {
	if c == nil || c.Len() != threshold {
		n := 0
		if c != nil {
			n = c.Len()
		}
		return fmt.Errorf("%w: got %d, expected %d", ErrCommitmentLength, n, threshold)
	}
	return nil
}

// Check returns the two points whose equality certifies value = f(id):
// F(id) computed from the commitment, and value⋅G.
func (c *Commitment) Check(id party.ID, value *big.Int) (fromCommitment, fromShare *curve.Point) {
	return c.Evaluate(id), curve.ScalarFromInt(value).ActOnBase()
}

// VerifyShare returns ErrShareVerification unless value = f(id) for the polynomial f committed to by c.
// The two sides are compared by their digests.
func VerifyShare(c *Commitment, id party.ID, value *big.Int) error {
	fromCommitment, fromShare := c.Check(id, value)
	if !curve.DigestEqual(fromCommitment, fromShare) {
		return fmt.Errorf("%w: share for %v", ErrShareVerification, id)
	}
	return nil
}

// Verify checks the length of c against threshold before verifying the share.
func Verify(c *Commitment, threshold int, id party.ID, value *big.Int) error {
	if err := CheckLength(c, threshold); err != nil {
		return err
	}
	return VerifyShare(c, id, value)
}

// PublicKey returns ∑ A₀ over all commitments, the public key of the sum of the shared secrets.
func PublicKey(commitments ...*Commitment) *curve.Point {
	pk := curve.NewIdentityPoint()
	for _, c := range commitments {
		pk.Add(pk, c.coefficients[0])
	}
	return pk
}
