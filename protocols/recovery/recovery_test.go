package recovery_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/feldman-vss/internal/test"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
	"github.com/taurusgroup/feldman-vss/pkg/transport/memory"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
	"github.com/taurusgroup/feldman-vss/protocols/dkg"
	"github.com/taurusgroup/feldman-vss/protocols/recovery"
)

func runDKG(t *testing.T, n, threshold int) map[party.ID]*keystore.Record {
	t.Helper()
	ids := test.PartyIDs(n)
	tr := memory.New(zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, errs := test.RunAll(ctx, ids, func(id party.ID) protocol.StartFunc {
		return dkg.Start(dkg.Config{SelfID: id, Participants: ids, Threshold: threshold}, tr, nil)
	}, []byte("dkg"))
	require.Empty(t, errs)

	records := make(map[party.ID]*keystore.Record, n)
	for id, result := range results {
		records[id] = result.(*keystore.Record)
	}
	return records
}

func runRecovery(t *testing.T, tr transport.Transport, records map[party.ID]*keystore.Record, quorum party.IDSlice, sessionID string) (map[party.ID]*recovery.Result, map[party.ID]error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, errs := test.RunAll(ctx, quorum, func(id party.ID) protocol.StartFunc {
		return recovery.Start(recovery.Config{
			Record:  records[id],
			Quorum:  quorum,
			Timeout: time.Second,
		}, tr, nil)
	}, []byte(sessionID))

	out := make(map[party.ID]*recovery.Result, len(results))
	for id, result := range results {
		r, ok := result.(*recovery.Result)
		require.True(t, ok)
		out[id] = r
	}
	return out, errs
}

func groupPublicKey(records map[party.ID]*keystore.Record) *curve.Point {
	var commitments []*vss.Commitment
	for id, record := range records {
		commitments = append(commitments, record.Commitments[id])
	}
	return vss.PublicKey(commitments...)
}

func recoverSecret(t *testing.T, tr transport.Transport, records map[party.ID]*keystore.Record, quorum party.IDSlice, sessionID string) *big.Int {
	t.Helper()
	results, errs := runRecovery(t, tr, records, quorum, sessionID)
	require.Empty(t, errs)
	require.Len(t, results, len(quorum))

	expected := groupPublicKey(records)
	var secret *big.Int
	for _, id := range quorum {
		result := results[id]
		if secret != nil {
			assert.Equal(t, secret.String(), result.Secret.String(), "all quorum members must agree")
		}
		secret = result.Secret
		assert.True(t, expected.Equal(result.PublicKey))
		assert.True(t, expected.Equal(curve.ScalarFromInt(result.Secret).ActOnBase()))
	}
	return secret
}

func TestRecovery_DisjointQuorums(t *testing.T) {
	records := runDKG(t, 7, 3)
	tr := memory.New(zerolog.Nop())

	first := recoverSecret(t, tr, records, party.IDSlice{1, 2, 3}, "first")
	second := recoverSecret(t, tr, records, party.IDSlice{4, 5, 6}, "second")
	assert.Equal(t, first.String(), second.String())

	all := recoverSecret(t, tr, records, test.PartyIDs(7), "all")
	assert.Equal(t, first.String(), all.String())
}

func TestRecovery_Quorums(t *testing.T) {
	records := runDKG(t, 7, 4)
	tr := memory.New(zerolog.Nop())

	var secret *big.Int
	for i, quorum := range []party.IDSlice{
		{1, 2, 3, 4},
		{4, 5, 6, 7},
		{1, 3, 5, 7},
		{2, 3, 4, 5, 6},
	} {
		s := recoverSecret(t, tr, records, quorum, fmt.Sprintf("quorum-%d", i))
		if secret != nil {
			assert.Equal(t, secret.String(), s.String())
		}
		secret = s
	}
}

func TestRecovery_SameQuorumTwice(t *testing.T) {
	records := runDKG(t, 3, 2)
	tr := memory.New(zerolog.Nop())
	quorum := party.IDSlice{1, 3}

	recoverSecret(t, tr, records, quorum, "session")
	_, errs := runRecovery(t, tr, records, quorum, "session")
	require.Len(t, errs, len(quorum))
	for _, err := range errs {
		assert.ErrorIs(t, err, transport.ErrDuplicate)
	}
}

func TestRecovery_PublicKeyMismatch(t *testing.T) {
	const malicious = party.ID(2)
	records := runDKG(t, 5, 3)
	net := test.NewNetwork(memory.New(zerolog.Nop()))
	net.SetRule(malicious, test.RuleFunc(func(key transport.Key, msg *transport.Message) *transport.Message {
		if !strings.HasSuffix(key.Topic, "/secret") {
			return msg
		}
		return transport.NewAggregatedSecretMessage(big.NewInt(42))
	}))

	quorum := party.IDSlice{1, 2, 3}
	results, errs := runRecovery(t, net, records, quorum, "mismatch")
	assert.Empty(t, results)
	require.Len(t, errs, len(quorum))
	for id, err := range errs {
		assert.ErrorIs(t, err, recovery.ErrPublicKeyMismatch, "party %v", id)
		var protocolErr protocol.Error
		require.True(t, errors.As(err, &protocolErr))
		assert.Equal(t, malicious, protocolErr.Culprit)
	}
}

func TestConfig_Validate(t *testing.T) {
	records := runDKG(t, 4, 3)
	tests := []struct {
		name    string
		config  recovery.Config
		wantErr bool
	}{
		{"valid", recovery.Config{Record: records[1], Quorum: []party.ID{1, 2, 3}}, false},
		{"everyone", recovery.Config{Record: records[1], Quorum: test.PartyIDs(4)}, false},
		{"nil record", recovery.Config{Quorum: []party.ID{1, 2, 3}}, true},
		{"unfinalized record", recovery.Config{Record: keystore.New(1, 3), Quorum: []party.ID{1, 2, 3}}, true},
		{"too small", recovery.Config{Record: records[1], Quorum: []party.ID{1, 2}}, true},
		{"self missing", recovery.Config{Record: records[1], Quorum: []party.ID{2, 3, 4}}, true},
		{"stranger", recovery.Config{Record: records[1], Quorum: []party.ID{1, 2, 5}}, true},
		{"duplicate", recovery.Config{Record: records[1], Quorum: []party.ID{1, 2, 2, 3}}, true},
		{"negative timeout", recovery.Config{Record: records[1], Quorum: []party.ID{1, 2, 3}, Timeout: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
