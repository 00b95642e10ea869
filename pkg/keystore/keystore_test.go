package keystore

import (
	"context"
	"crypto/rand"
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/math/sample"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

// newRecords deals the key material of n parties without running a session.
func newRecords(t *testing.T, threshold, n int) []*Record {
	order := curve.OrderInt()
	ids := party.Range(n)
	records := make([]*Record, n)
	for i, id := range ids {
		records[i] = New(id, threshold)
		records[i].Secret = new(big.Int)
	}
	for _, dealer := range records {
		f, err := polynomial.NewPolynomial(rand.Reader, threshold, sample.Scalar(rand.Reader).Int(), order)
		require.NoError(t, err)
		c, err := vss.Commit(f, nil)
		require.NoError(t, err)
		dealer.Polynomial = f
		for _, r := range records {
			r.Commitments[dealer.ID] = c
			r.Secret.Add(r.Secret, f.Evaluate(r.ID.Int()))
			r.Secret.Mod(r.Secret, order)
		}
	}
	for _, r := range records {
		require.NoError(t, r.Finalize())
	}
	return records
}

func TestRecord_Finalize(t *testing.T) {
	records := newRecords(t, 3, 5)
	r := records[0]
	assert.True(t, r.Finalized())
	assert.Equal(t, 5, r.N())
	assert.Equal(t, 3, r.T())
	assert.Equal(t, party.Range(5), r.PartyIDs())

	// every record agrees on the public key
	for _, other := range records[1:] {
		assert.True(t, r.PublicKey().Equal(other.PublicKey()))
	}

	// the secret shares interpolate to the discrete log of the public key
	shares := make([]polynomial.Share, 0, 3)
	for _, other := range records[:3] {
		shares = append(shares, polynomial.Share{ID: other.ID, Value: other.Secret})
	}
	secret, err := polynomial.Interpolate(shares, curve.OrderInt())
	require.NoError(t, err)
	assert.True(t, curve.ScalarFromInt(secret).ActOnBase().Equal(r.PublicKey()))
}

func TestRecord_FinalizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Record)
	}{
		{"empty", func(r *Record) { *r = *New(r.ID, r.Threshold) }},
		{"wrong secret", func(r *Record) { r.Secret = new(big.Int).Add(r.Secret, big.NewInt(1)) }},
		{"missing own commitment", func(r *Record) { delete(r.Commitments, r.ID) }},
		{"foreign polynomial", func(r *Record) {
			f, _ := polynomial.NewPolynomial(rand.Reader, r.Threshold, big.NewInt(5), curve.OrderInt())
			r.Polynomial = f
		}},
		{"inflated commitment", func(r *Record) {
			points := r.Commitments[2].Points()
			r.Commitments[2] = vss.NewCommitment(append(points, curve.NewBasePoint()))
		}},
		{"threshold above n", func(r *Record) {
			for id := range r.Commitments {
				if id != r.ID {
					delete(r.Commitments, id)
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecords(t, 2, 3)[0]
			tt.modify(r)
			assert.ErrorIs(t, r.Finalize(), ErrNotFinalized)
		})
	}
}

func TestRecord_Marshal(t *testing.T) {
	r := newRecords(t, 3, 4)[1]
	data, err := r.MarshalBinary()
	require.NoError(t, err)

	r2 := new(Record)
	require.NoError(t, r2.UnmarshalBinary(data))
	assert.True(t, r2.Finalized())
	assert.Equal(t, r.ID, r2.ID)
	assert.Equal(t, r.Threshold, r2.Threshold)
	assert.Equal(t, r.Secret.String(), r2.Secret.String())
	assert.Equal(t, r.Polynomial.Constant().String(), r2.Polynomial.Constant().String())
	for id, c := range r.Commitments {
		assert.True(t, c.Equal(r2.Commitments[id]))
	}
	assert.True(t, r.PublicKey().Equal(r2.PublicKey()))

	_, err = New(1, 2).MarshalBinary()
	assert.ErrorIs(t, err, ErrNotFinalized)
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			records := newRecords(t, 2, 3)
			for _, r := range records {
				require.NoError(t, s.Save(ctx, r))
			}
			for _, r := range records {
				loaded, err := s.Load(ctx, r.ID)
				require.NoError(t, err)
				assert.Equal(t, r.Secret.String(), loaded.Secret.String())
				assert.True(t, r.PublicKey().Equal(loaded.PublicKey()))
			}

			ids, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, party.Range(3), ids)

			_, err = s.Load(ctx, 9)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Save(ctx, New(9, 2)), ErrNotFinalized)

			// saving again replaces the record
			require.NoError(t, s.Save(ctx, records[0]))
		})
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	r := newRecords(t, 2, 2)[0]
	require.NoError(t, s.Save(ctx, r))

	data, err := os.ReadFile(s.Path(r.ID))
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(s.Path(r.ID), data, 0o600))
	_, err = s.Load(ctx, r.ID)
	assert.ErrorContains(t, err, "crc mismatch")

	require.NoError(t, os.WriteFile(s.Path(r.ID), data[:5], 0o600))
	_, err = s.Load(ctx, r.ID)
	assert.Error(t, err)

	// a record stored under the wrong name is rejected
	require.NoError(t, s.Save(ctx, r))
	require.NoError(t, os.Rename(s.Path(r.ID), s.Path(7)))
	_, err = s.Load(ctx, 7)
	assert.ErrorContains(t, err, "holds record of")
}
