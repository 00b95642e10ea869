package dkg

import (
	"context"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

// round4 is the ShareDistribution state.
type round4 struct {
	*round3
}

// Number implements round.Round.
func (round4) Number() round.Number { return 4 }

// Finalize implements round.Round.
//
// - send fᵢ(j) to every other party j.
func (r *round4) Finalize(ctx context.Context) (round.Session, error) {
	for _, j := range r.OtherPartyIDs() {
		share := r.record.Polynomial.Evaluate(j.Int())
		if err := r.SendMessage(ctx, topicShare, j, transport.NewShareMessage(share)); err != nil {
			return nil, err
		}
	}
	return &round5{round4: r}, nil
}
