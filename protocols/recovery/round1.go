package recovery

import (
	"context"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

type round1 struct {
	*round.Helper

	record *keystore.Record
	// publicKey is the group public key ∑ⱼ Fⱼ(0).
	publicKey *curve.Point
}

// Number implements round.Round.
func (round1) Number() round.Number { return 1 }

// Finalize implements round.Round.
//
// - broadcast the aggregated share xᵢ.
func (r *round1) Finalize(ctx context.Context) (round.Session, error) {
	msg := transport.NewAggregatedSecretMessage(r.record.Secret)
	if err := r.BroadcastMessage(ctx, topicSecret, msg); err != nil {
		return nil, err
	}
	return &round2{round1: r}, nil
}
