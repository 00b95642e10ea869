package round

import (
	"time"

	"github.com/taurusgroup/feldman-vss/pkg/party"
)

// Info describes a protocol execution.
type Info struct {
	// ProtocolID is an identifier for this protocol
	ProtocolID string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber Number
	// SelfID is this party's ID.
	SelfID party.ID
	// PartyIDs is the set of participating parties in this protocol.
	PartyIDs []party.ID
	// Threshold is the number of shares needed to recover the secret.
	Threshold int
	// Timeout bounds the waits of each round. Zero waits until the context is done.
	Timeout time.Duration
}

// Session represents the current execution of a round-based protocol.
// It embeds the current round, and provides additional information about the execution.
type Session interface {
	// Round is the current round being executed.
	Round
	// ProtocolID is an identifier for this protocol.
	ProtocolID() string
	// FinalRoundNumber is the number of rounds before the output round.
	FinalRoundNumber() Number
	// SSID the unique identifier for this protocol execution.
	SSID() []byte
	// SelfID is this party's ID.
	SelfID() party.ID
	// PartyIDs is a sorted slice of participating parties in this protocol.
	PartyIDs() party.IDSlice
	// OtherPartyIDs returns a sorted list of parties that does not contain SelfID.
	OtherPartyIDs() party.IDSlice
	// Threshold is the number of shares needed to recover the secret.
	Threshold() int
	// N returns the total number of parties participating in the protocol.
	N() int
}
