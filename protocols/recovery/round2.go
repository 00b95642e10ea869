package recovery

import (
	"context"
	"fmt"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

type round2 struct {
	*round1
}

// Number implements round.Round.
func (round2) Number() round.Number { return 2 }

// Finalize implements round.Round.
//
// - receive xⱼ from every member j of the quorum.
// - interpolate x = ∑ⱼ λⱼ xⱼ and check x•G against the public key.
func (r *round2) Finalize(ctx context.Context) (round.Session, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	messages, err := r.ReceiveAll(ctx, topicSecret, r.PartyIDs(), true)
	if err != nil {
		return nil, err
	}

	shares := make([]polynomial.Share, 0, len(messages))
	for _, j := range r.PartyIDs() {
		value, err := messages[j].AggregatedSecret()
		if err != nil {
			return r.AbortRound(fmt.Errorf("party %v: %w", j, err), j), nil
		}
		shares = append(shares, polynomial.Share{ID: j, Value: value})
	}

	secret, err := polynomial.Interpolate(shares, curve.OrderInt())
	if err != nil {
		return nil, err
	}
	publicKey := curve.ScalarFromInt(secret).ActOnBase()
	if !curve.DigestEqual(publicKey, r.publicKey) {
		return r.AbortRound(ErrPublicKeyMismatch, r.culprits(shares)...), nil
	}

	return r.ResultRound(&Result{
		Secret:    secret,
		PublicKey: publicKey,
	}), nil
}

// culprits returns the members whose published share does not match the summed commitment.
func (r *round2) culprits(shares []polynomial.Share) []party.ID {
	ids := r.record.PartyIDs()
	commitments := make([]*vss.Commitment, 0, len(ids))
	for _, id := range ids {
		commitments = append(commitments, r.record.Commitments[id])
	}
	summed, err := vss.Sum(commitments)
	if err != nil {
		return nil
	}
	var culprits []party.ID
	for _, share := range shares {
		if vss.VerifyShare(summed, share.ID, share.Value) != nil {
			culprits = append(culprits, share.ID)
		}
	}
	return culprits
}
