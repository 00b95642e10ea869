package dkg

import (
	"context"
	"fmt"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

// round2 is the CommitBroadcast state.
type round2 struct {
	*round1
}

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }

// Finalize implements round.Round.
//
// - compute Fᵢ(X) = fᵢ(X)•G and broadcast it.
func (r *round2) Finalize(ctx context.Context) (round.Session, error) {
	commitment, err := vss.Commit(r.record.Polynomial, r.Pool)
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	if err = r.BroadcastMessage(ctx, topicCommitment, transport.NewCommitmentMessage(commitment)); err != nil {
		return nil, err
	}
	return &round3{round2: r, commitment: commitment}, nil
}
