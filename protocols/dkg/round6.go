package dkg

import (
	"context"
	"fmt"
	"math/big"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
)

// round6 is the Aggregate state.
type round6 struct {
	*round5
	// shares holds the verified fⱼ(i) of every other party j.
	shares []*big.Int
}

// Number implements round.Round.
func (round6) Number() round.Number { return 6 }

// Finalize implements round.Round.
//
// - compute xᵢ = ∑ⱼ fⱼ(i) mod n, and finalize the record.
func (r *round6) Finalize(context.Context) (round.Session, error) {
	order := curve.OrderInt()
	secret := r.record.Polynomial.Evaluate(r.SelfID().Int())
	for _, share := range r.shares {
		secret.Add(secret, share)
	}
	secret.Mod(secret, order)
	r.record.Secret = secret

	if err := r.record.Finalize(); err != nil {
		return nil, fmt.Errorf("failed to finalize key material: %w", err)
	}
	return r.ResultRound(r.record), nil
}
