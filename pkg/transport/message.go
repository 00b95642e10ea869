package transport

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

// Kind is the type of payload carried by a Message.
type Kind uint8

const (
	// KindCommitment carries a dealer's vss.Commitment, sent on the broadcast channel.
	KindCommitment Kind = iota + 1
	// KindShare carries f(j) from a dealer to party j.
	KindShare
	// KindAggregatedSecret carries a party's final secret share, published during recovery.
	KindAggregatedSecret
)

func (k Kind) String() string {
	switch k {
	case KindCommitment:
		return "commitment"
	case KindShare:
		return "share"
	case KindAggregatedSecret:
		return "aggregated secret"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Message is one of the payloads exchanged during a session.
// Exactly one of the payload fields is set, according to Kind.
type Message struct {
	Kind       Kind
	commitment *vss.Commitment
	value      *big.Int
}

// NewCommitmentMessage wraps a commitment.
func NewCommitmentMessage(c *vss.Commitment) *Message {
	return &Message{Kind: KindCommitment, commitment: c}
}

// NewShareMessage wraps the value of a share.
func NewShareMessage(value *big.Int) *Message {
	return &Message{Kind: KindShare, value: new(big.Int).Set(value)}
}

// NewAggregatedSecretMessage wraps a party's aggregated secret share.
func NewAggregatedSecretMessage(value *big.Int) *Message {
	return &Message{Kind: KindAggregatedSecret, value: new(big.Int).Set(value)}
}

// Commitment returns the payload of a KindCommitment message.
func (m *Message) Commitment() (*vss.Commitment, error) {
	if m.Kind != KindCommitment {
		return nil, fmt.Errorf("%w: expected %v, got %v", ErrUnexpectedKind, KindCommitment, m.Kind)
	}
	return m.commitment, nil
}

// Share returns the payload of a KindShare message.
func (m *Message) Share() (*big.Int, error) {
	return m.valueOf(KindShare)
}

// AggregatedSecret returns the payload of a KindAggregatedSecret message.
func (m *Message) AggregatedSecret() (*big.Int, error) {
	return m.valueOf(KindAggregatedSecret)
}

func (m *Message) valueOf(kind Kind) (*big.Int, error) {
	if m.Kind != kind {
		return nil, fmt.Errorf("%w: expected %v, got %v", ErrUnexpectedKind, kind, m.Kind)
	}
	return new(big.Int).Set(m.value), nil
}

// wireMessage is the cbor representation of a Message.
type wireMessage struct {
	Kind Kind
	Data []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	w := wireMessage{Kind: m.Kind}
	switch m.Kind {
	case KindCommitment:
		if m.commitment == nil {
			return nil, errors.New("transport.Message: nil commitment")
		}
		data, err := m.commitment.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("transport.Message: %w", err)
		}
		w.Data = data
	case KindShare, KindAggregatedSecret:
		if m.value == nil || m.value.Sign() < 0 {
			return nil, fmt.Errorf("transport.Message: invalid %v", m.Kind)
		}
		w.Data = m.value.Bytes()
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedKind, m.Kind)
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Message) UnmarshalBinary(data []byte) error {
	var w wireMessage
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("transport.Message: %w", err)
	}
	out := Message{Kind: w.Kind}
	switch w.Kind {
	case KindCommitment:
		out.commitment = new(vss.Commitment)
		if err := out.commitment.UnmarshalBinary(w.Data); err != nil {
			return fmt.Errorf("transport.Message: %w", err)
		}
	case KindShare, KindAggregatedSecret:
		out.value = new(big.Int).SetBytes(w.Data)
	default:
		return fmt.Errorf("%w: %v", ErrUnexpectedKind, w.Kind)
	}
	*m = out
	return nil
}
