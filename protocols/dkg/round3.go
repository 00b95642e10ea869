package dkg

import (
	"context"
	"errors"
	"fmt"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

// round3 is the AwaitCommitments state.
type round3 struct {
	*round2
	// commitment is Fᵢ(X), as broadcast in round2.
	commitment *vss.Commitment
}

// Number implements round.Round.
func (round3) Number() round.Number { return 3 }

// Finalize implements round.Round.
//
// - receive Fⱼ(X) from every party, including ourselves.
// - check that every Fⱼ has exactly t coefficients.
func (r *round3) Finalize(ctx context.Context) (round.Session, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	messages, err := r.ReceiveAll(ctx, topicCommitment, r.PartyIDs(), true)
	if err != nil {
		return nil, err
	}

	var (
		culprits []party.ID
		errs     []error
	)
	for _, j := range r.PartyIDs() {
		commitment, err := messages[j].Commitment()
		if err == nil {
			err = vss.CheckLength(commitment, r.Threshold())
		}
		if err == nil && j == r.SelfID() && !commitment.Equal(r.commitment) {
			err = errors.New("own commitment was altered")
		}
		if err != nil {
			culprits = append(culprits, j)
			errs = append(errs, fmt.Errorf("party %v: %w", j, err))
			continue
		}
		r.record.Commitments[j] = commitment
	}
	if len(culprits) > 0 {
		return r.AbortRound(errors.Join(errs...), culprits...), nil
	}
	return &round4{round3: r}, nil
}
