package memory

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
	"golang.org/x/sync/errgroup"
)

func TestTransport_PublishReceive(t *testing.T) {
	ctx := context.Background()
	tr := New(zerolog.Nop())

	shareKey := transport.Key{Topic: "share", From: 1, To: 2}
	require.NoError(t, tr.Publish(ctx, shareKey, transport.NewShareMessage(big.NewInt(1234))))

	c := vss.NewCommitment([]*curve.Point{curve.NewBasePoint(), curve.NewIdentityPoint()})
	comKey := transport.BroadcastKey("commitment", 2)
	require.NoError(t, tr.Publish(ctx, comKey, transport.NewCommitmentMessage(c)))
	assert.True(t, comKey.IsBroadcast())
	assert.False(t, shareKey.IsBroadcast())

	msg, err := tr.Receive(ctx, shareKey)
	require.NoError(t, err)
	v, err := msg.Share()
	require.NoError(t, err)
	assert.Equal(t, "1234", v.String())
	_, err = msg.Commitment()
	assert.ErrorIs(t, err, transport.ErrUnexpectedKind)

	// a broadcast message can be read any number of times
	for i := 0; i < 3; i++ {
		msg, err = tr.Receive(ctx, comKey)
		require.NoError(t, err)
		c2, err := msg.Commitment()
		require.NoError(t, err)
		assert.True(t, c.Equal(c2))
	}
	assert.Equal(t, 2, tr.Len())
}

func TestTransport_Duplicate(t *testing.T) {
	ctx := context.Background()
	tr := New(zerolog.Nop())
	key := transport.BroadcastKey("secret", 3)
	require.NoError(t, tr.Publish(ctx, key, transport.NewAggregatedSecretMessage(big.NewInt(1))))
	err := tr.Publish(ctx, key, transport.NewAggregatedSecretMessage(big.NewInt(2)))
	assert.ErrorIs(t, err, transport.ErrDuplicate)

	msg, err := tr.Receive(ctx, key)
	require.NoError(t, err)
	v, err := msg.AggregatedSecret()
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
}

func TestTransport_ReceiveBlocks(t *testing.T) {
	ctx := context.Background()
	tr := New(zerolog.Nop())
	const n = 8

	var g errgroup.Group
	for i := 1; i <= n; i++ {
		from := party.ID(i)
		g.Go(func() error {
			msg, err := tr.Receive(ctx, transport.Key{Topic: "share", From: from, To: 1})
			if err != nil {
				return err
			}
			v, err := msg.Share()
			if err != nil {
				return err
			}
			assert.Equal(t, int64(from), v.Int64())
			return nil
		})
	}

	// concurrent senders targeting distinct keys
	var senders errgroup.Group
	for i := 1; i <= n; i++ {
		from := party.ID(i)
		senders.Go(func() error {
			return tr.Publish(ctx, transport.Key{Topic: "share", From: from, To: 1}, transport.NewShareMessage(from.Int()))
		})
	}
	require.NoError(t, senders.Wait())
	require.NoError(t, g.Wait())
}

func TestTransport_Timeout(t *testing.T) {
	tr := New(zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := tr.Receive(ctx, transport.BroadcastKey("commitment", 1))
	assert.ErrorIs(t, err, transport.ErrTimeout)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	_, err = tr.Receive(ctx, transport.BroadcastKey("commitment", 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, transport.ErrTimeout)
}

func TestTransport_Close(t *testing.T) {
	ctx := context.Background()
	tr := New(zerolog.Nop())
	errs := make(chan error, 1)
	go func() {
		_, err := tr.Receive(ctx, transport.BroadcastKey("commitment", 1))
		errs <- err
	}()
	tr.Close()
	tr.Close()
	assert.ErrorIs(t, <-errs, transport.ErrClosed)
	assert.ErrorIs(t, tr.Publish(ctx, transport.BroadcastKey("commitment", 1), transport.NewShareMessage(big.NewInt(1))), transport.ErrClosed)
}
