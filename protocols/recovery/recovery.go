// Package recovery reconstructs the group secret of a DKG from a quorum of its participants.
//
// Every member of the quorum publishes its aggregated share on the broadcast channel, so the
// secret is revealed to anyone reading it. The reconstructed secret is only accepted if it
// matches the group public key of the DKG.
package recovery

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/pool"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

const (
	protocolID                  = "feldman/recovery"
	protocolRounds round.Number = 2

	topicSecret = "secret"
)

// ErrPublicKeyMismatch is returned when the reconstructed secret does not match the group public key.
var ErrPublicKeyMismatch = errors.New("recovery: reconstructed secret does not match the public key")

var (
	_ round.Round = (*round1)(nil)
	_ round.Round = (*round2)(nil)
)

// Config parametrizes a recovery for a single member of the quorum.
type Config struct {
	// Record is the finalized key material of the local party.
	Record *keystore.Record
	// Quorum is the set of parties publishing their share, including Record.ID.
	// It must contain at least Record.Threshold parties of the DKG.
	Quorum []party.ID
	// Timeout bounds the wait for the shares of the quorum. Zero waits until the context is done.
	Timeout time.Duration
}

// Validate checks that the configuration describes a valid recovery.
func (c Config) Validate() error {
	if c.Record == nil || !c.Record.Finalized() {
		return fmt.Errorf("recovery: %w", keystore.ErrNotFinalized)
	}
	quorum := party.NewIDSlice(c.Quorum)
	if !quorum.Valid() {
		return fmt.Errorf("recovery: invalid quorum %v", c.Quorum)
	}
	if !quorum.Contains(c.Record.ID) {
		return fmt.Errorf("recovery: party %v is not in the quorum", c.Record.ID)
	}
	if !c.Record.PartyIDs().Contains(quorum...) {
		return fmt.Errorf("recovery: quorum %v is not a subset of %v", quorum, c.Record.PartyIDs())
	}
	if len(quorum) < c.Record.T() {
		return fmt.Errorf("recovery: quorum of %d parties is smaller than the threshold %d", len(quorum), c.Record.T())
	}
	if c.Timeout < 0 {
		return fmt.Errorf("recovery: negative timeout %v", c.Timeout)
	}
	return nil
}

// Result is the outcome of a successful recovery.
type Result struct {
	// Secret is the group secret, in [0, n).
	Secret *big.Int
	// PublicKey is Secret•G, which equals the group public key of the DKG.
	PublicKey *curve.Point
}

// Start returns the StartFunc of a recovery for the party owning cfg.Record.
//
// On success, the result of the protocol is a *Result.
func Start(cfg Config, t transport.Transport, pl *pool.Pool) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: protocolRounds,
			SelfID:           cfg.Record.ID,
			PartyIDs:         cfg.Quorum,
			Threshold:        cfg.Record.T(),
			Timeout:          cfg.Timeout,
		}
		publicKey := cfg.Record.PublicKey()
		helper, err := round.NewSession(info, sessionID, t, pl, publicKey)
		if err != nil {
			return nil, fmt.Errorf("recovery: %w", err)
		}
		return &round1{
			Helper:    helper,
			record:    cfg.Record,
			publicKey: publicKey,
		}, nil
	}
}
