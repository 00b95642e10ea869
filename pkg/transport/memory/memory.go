// Package memory implements an in-process transport.Transport.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

// Transport is an in-memory message store, keyed by transport.Key.
//
// Messages are stored encoded, so that every reader decodes its own copy,
// as if it had come over the network.
type Transport struct {
	mtx      sync.Mutex
	messages map[transport.Key][]byte
	// waiters holds a channel per key that some Receive is blocked on.
	// It is closed, and removed, once the key is published.
	waiters map[transport.Key]chan struct{}

	closeOnce sync.Once
	closed    chan struct{}

	log zerolog.Logger
}

var _ transport.Transport = (*Transport)(nil)

// New returns an empty Transport.
func New(log zerolog.Logger) *Transport {
	return &Transport{
		messages: make(map[transport.Key][]byte),
		waiters:  make(map[transport.Key]chan struct{}),
		closed:   make(chan struct{}),
		log:      log.With().Str("component", "transport").Logger(),
	}
}

// Publish implements transport.Transport.
func (t *Transport) Publish(ctx context.Context, key transport.Key, msg *transport.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := msg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("memory: publish %v: %w", key, err)
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	select {
	case <-t.closed:
		return transport.ErrClosed
	default:
	}
	if _, ok := t.messages[key]; ok {
		return fmt.Errorf("%w: %v", transport.ErrDuplicate, key)
	}
	t.messages[key] = data
	if waiter, ok := t.waiters[key]; ok {
		close(waiter)
		delete(t.waiters, key)
	}
	t.log.Debug().Stringer("key", key).Stringer("kind", msg.Kind).Msg("published")
	return nil
}

// Receive implements transport.Transport.
func (t *Transport) Receive(ctx context.Context, key transport.Key) (*transport.Message, error) {
	for {
		data, waiter := t.lookup(key)
		if data != nil {
			msg := new(transport.Message)
			if err := msg.UnmarshalBinary(data); err != nil {
				return nil, fmt.Errorf("memory: receive %v: %w", key, err)
			}
			return msg, nil
		}

		select {
		case <-waiter:
		case <-t.closed:
			return nil, transport.ErrClosed
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", transport.ErrTimeout, key)
			}
			return nil, ctx.Err()
		}
	}
}

// lookup returns the data stored under key, or a channel closed once it is published.
func (t *Transport) lookup(key transport.Key) ([]byte, <-chan struct{}) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if data, ok := t.messages[key]; ok {
		return data, nil
	}
	waiter, ok := t.waiters[key]
	if !ok {
		waiter = make(chan struct{})
		t.waiters[key] = waiter
	}
	return nil, waiter
}

// Len returns the number of published messages.
func (t *Transport) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.messages)
}

// Close releases every blocked Receive with transport.ErrClosed.
// Further calls to Publish and Receive fail.
func (t *Transport) Close() {
	t.closeOnce.Do(func() { close(t.closed) })
}
