// Package transport defines how participants of a session exchange messages.
//
// Every message is addressed by a Key (topic, sender, recipient). A recipient of
// party.Broadcast (0) denotes the broadcast channel. Each key is published at most once
// per session, and receiving blocks until the key is available.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/taurusgroup/feldman-vss/pkg/party"
)

var (
	// ErrDuplicate is returned when a key is published twice.
	ErrDuplicate = errors.New("transport: key already published")
	// ErrTimeout is returned when a message does not arrive before the deadline.
	ErrTimeout = errors.New("transport: message timeout")
	// ErrClosed is returned when the transport is no longer available.
	ErrClosed = errors.New("transport: closed")
	// ErrUnexpectedKind is returned when a message holds another kind of payload than requested.
	ErrUnexpectedKind = errors.New("transport: unexpected message kind")
)

// Transport is the message store shared by the participants of a session.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	// Publish stores msg under key. Publishing a key twice returns ErrDuplicate.
	Publish(ctx context.Context, key Key, msg *Message) error

	// Receive blocks until a message is published under key, ctx is done, or the transport is closed.
	// If the deadline of ctx expires, the error wraps ErrTimeout.
	Receive(ctx context.Context, key Key) (*Message, error)
}

// Key identifies a message within a session.
type Key struct {
	Topic string
	From  party.ID
	// To is party.Broadcast for broadcast messages.
	To party.ID
}

// BroadcastKey returns the key of the message broadcast by from on topic.
func BroadcastKey(topic string, from party.ID) Key {
	return Key{Topic: topic, From: from, To: party.Broadcast}
}

// IsBroadcast returns true if the key addresses the broadcast channel.
func (k Key) IsBroadcast() bool {
	return k.To == party.Broadcast
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%v->%v", k.Topic, k.From, k.To)
}
