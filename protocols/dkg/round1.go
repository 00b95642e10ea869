package dkg

import (
	"context"
	"fmt"
	"io"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/math/sample"
)

// round1 is the Init state.
type round1 struct {
	*round.Helper

	rand io.Reader

	// record is filled in as the protocol advances, and returned once finalized.
	record *keystore.Record
}

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }

// Finalize implements round.Round.
//
// - sample aᵢ₀ <- 𝔽ₙ*
// - sample fᵢ(X) of degree t-1 with fᵢ(0) = aᵢ₀.
func (r *round1) Finalize(context.Context) (round.Session, error) {
	secret := sample.ScalarUnit(r.rand).Int()
	f, err := polynomial.NewPolynomial(r.rand, r.Threshold(), secret, curve.OrderInt())
	if err != nil {
		return nil, fmt.Errorf("failed to sample polynomial: %w", err)
	}
	r.record.Polynomial = f
	return &round2{round1: r}, nil
}
