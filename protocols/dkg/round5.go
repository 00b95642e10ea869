package dkg

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

// round5 is the AwaitShares&Verify state.
type round5 struct {
	*round4
}

// Number implements round.Round.
func (round5) Number() round.Number { return 5 }

// Finalize implements round.Round.
//
// - receive fⱼ(i) from every other party j.
// - check fⱼ(i)•G = Fⱼ(i).
func (r *round5) Finalize(ctx context.Context) (round.Session, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	others := r.OtherPartyIDs()
	messages, err := r.ReceiveAll(ctx, topicShare, others, false)
	if err != nil {
		return nil, err
	}

	shares := make([]*big.Int, len(others))
	results := r.Pool.Parallelize(len(others), func(idx int) interface{} {
		j := others[idx]
		share, err := messages[j].Share()
		if err != nil {
			return err
		}
		if err = vss.VerifyShare(r.record.Commitments[j], r.SelfID(), share); err != nil {
			return err
		}
		shares[idx] = share
		return nil
	})

	var (
		culprits []party.ID
		errs     []error
	)
	for idx, result := range results {
		if err, ok := result.(error); ok && err != nil {
			culprits = append(culprits, others[idx])
			errs = append(errs, fmt.Errorf("party %v: %w", others[idx], err))
		}
	}
	if len(culprits) > 0 {
		return r.AbortRound(errors.Join(errs...), culprits...), nil
	}
	return &round6{round5: r, shares: shares}, nil
}
