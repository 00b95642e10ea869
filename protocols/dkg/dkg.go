// Package dkg implements a Feldman VSS based distributed key generation.
//
// Every participant deals a random secret with a polynomial of degree t-1, broadcasts a
// commitment to it, and sends an evaluation to every other participant. Shares are checked
// against their dealer's commitment before being summed into the participant's own share of
// the group secret, whose public key is the sum of all commitments' constant terms.
package dkg

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/pool"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

const (
	protocolID = "feldman/dkg"
	// Init, CommitBroadcast, AwaitCommitments, ShareDistribution, AwaitShares and Aggregate.
	protocolRounds round.Number = 6

	topicCommitment = "commitment"
	topicShare      = "share"
)

// These assert that our rounds implement the round.Round interface.
var (
	_ round.Round = (*round1)(nil)
	_ round.Round = (*round2)(nil)
	_ round.Round = (*round3)(nil)
	_ round.Round = (*round4)(nil)
	_ round.Round = (*round5)(nil)
	_ round.Round = (*round6)(nil)
)

// Config parametrizes a DKG execution for a single participant.
type Config struct {
	// SelfID is the identifier of the local participant.
	SelfID party.ID
	// Participants is the complete set of parties that will hold a share of the secret, including SelfID.
	Participants []party.ID
	// Threshold is the number of shares needed to recover the secret.
	// Every polynomial has Threshold coefficients.
	Threshold int
	// Timeout bounds the wait for the messages of each round. Zero waits until the context is done.
	Timeout time.Duration
	// Rand is the source of randomness for the polynomial. It defaults to crypto/rand.
	// A reader shared between parties running concurrently must be safe for concurrent use,
	// see pool.NewLockedReader.
	Rand io.Reader
}

// Validate checks that the configuration describes a valid execution.
func (c Config) Validate() error {
	if c.SelfID == party.Broadcast {
		return fmt.Errorf("dkg: %w", party.ErrZeroID)
	}
	ids := party.NewIDSlice(c.Participants)
	if !ids.Valid() {
		return fmt.Errorf("dkg: invalid participants %v", c.Participants)
	}
	if !ids.Contains(c.SelfID) {
		return fmt.Errorf("dkg: party %v is not a participant", c.SelfID)
	}
	if c.Threshold < 1 || c.Threshold > len(ids) {
		return fmt.Errorf("dkg: threshold %d is invalid for %d participants", c.Threshold, len(ids))
	}
	if c.Timeout < 0 {
		return fmt.Errorf("dkg: negative timeout %v", c.Timeout)
	}
	return nil
}

// Start returns the StartFunc of a DKG execution for the party configured in cfg.
// Messages are exchanged through t, and pl (which may be nil) parallelizes the commitment computation.
//
// On success, the result of the protocol is a finalized *keystore.Record.
func Start(cfg Config, t transport.Transport, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           cfg.SelfID,
			PartyIDs:         cfg.Participants,
			Threshold:        cfg.Threshold,
			Timeout:          cfg.Timeout,
		}
		helper, err := round.NewSession(info, sessionID, t, pl)
		if err != nil {
			return nil, fmt.Errorf("dkg: %w", err)
		}
		random := cfg.Rand
		if random == nil {
			random = rand.Reader
		}
		return &round1{
			Helper:  helper,
			rand:    random,
			record:  keystore.New(cfg.SelfID, cfg.Threshold),
		}, nil
	}
}
