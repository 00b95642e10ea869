// Package keystore holds the key material a party obtains from a DKG session.
package keystore

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/vss"
)

var ErrNotFinalized = errors.New("keystore: record is not finalized")

// Record is the key material of a single party.
//
// It is filled in during a DKG session, and must not be modified once Finalize succeeds.
type Record struct {
	// ID of the party owning this record.
	ID party.ID
	// Threshold is the number of shares needed to recover the secret.
	Threshold int
	// Polynomial is the party's own secret polynomial. It is never sent to other parties.
	Polynomial *polynomial.Polynomial
	// Commitments maps every party, including ID, to its commitment.
	Commitments map[party.ID]*vss.Commitment
	// Secret is the aggregated secret share ∑ⱼ fⱼ(ID) mod n.
	Secret *big.Int

	finalized bool
}

// New returns an empty Record for party id.
func New(id party.ID, threshold int) *Record {
	return &Record{
		ID:          id,
		Threshold:   threshold,
		Commitments: make(map[party.ID]*vss.Commitment),
	}
}

// N is the number of parties whose commitment is held.
func (r *Record) N() int {
	return len(r.Commitments)
}

// T is the number of shares needed to recover the secret.
func (r *Record) T() int {
	return r.Threshold
}

// PartyIDs returns the sorted IDs of all parties of the session.
func (r *Record) PartyIDs() party.IDSlice {
	ids := make([]party.ID, 0, len(r.Commitments))
	for id := range r.Commitments {
		ids = append(ids, id)
	}
	return party.NewIDSlice(ids)
}

// PublicKey returns the group public key ∑ⱼ Aⱼ₀.
// It is recomputed from the commitments on every call.
func (r *Record) PublicKey() *curve.Point {
	commitments := make([]*vss.Commitment, 0, len(r.Commitments))
	for _, id := range r.PartyIDs() {
		commitments = append(commitments, r.Commitments[id])
	}
	return vss.PublicKey(commitments...)
}

// PublicShare returns Secret⋅G, the public counterpart of this party's share.
func (r *Record) PublicShare() *curve.Point {
	return curve.ScalarFromInt(r.Secret).ActOnBase()
}

// Finalized returns true once Finalize has succeeded.
func (r *Record) Finalized() bool {
	return r.finalized
}

// Finalize checks that the record is complete and consistent, and marks it immutable.
//
// Every commitment must have exactly Threshold coefficients, the party's own
// commitment must match its polynomial, and the aggregated secret must verify
// against the sum of all commitments.
func (r *Record) Finalize() error {
	if err := r.validate(); err != nil {
		return err
	}
	r.finalized = true
	return nil
}

func (r *Record) validate() error {
	if r.ID == party.Broadcast {
		return fmt.Errorf("%w: %v", ErrNotFinalized, party.ErrZeroID)
	}
	if r.Polynomial == nil || r.Polynomial.Threshold() != r.Threshold {
		return fmt.Errorf("%w: missing polynomial", ErrNotFinalized)
	}
	if r.Secret == nil {
		return fmt.Errorf("%w: missing secret", ErrNotFinalized)
	}
	own, ok := r.Commitments[r.ID]
	if !ok {
		return fmt.Errorf("%w: missing own commitment", ErrNotFinalized)
	}
	expected, err := vss.Commit(r.Polynomial, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFinalized, err)
	}
	if !own.Equal(expected) {
		return fmt.Errorf("%w: own commitment does not match polynomial", ErrNotFinalized)
	}

	ids := r.PartyIDs()
	if r.Threshold > len(ids) {
		return fmt.Errorf("%w: threshold %d with %d parties", ErrNotFinalized, r.Threshold, len(ids))
	}
	commitments := make([]*vss.Commitment, 0, len(ids))
	for _, id := range ids {
		c := r.Commitments[id]
		if err = vss.CheckLength(c, r.Threshold); err != nil {
			return fmt.Errorf("%w: party %v: %v", ErrNotFinalized, id, err)
		}
		commitments = append(commitments, c)
	}
	summed, err := vss.Sum(commitments)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFinalized, err)
	}
	if err = vss.VerifyShare(summed, r.ID, r.Secret); err != nil {
		return fmt.Errorf("%w: %v", ErrNotFinalized, err)
	}
	return nil
}

// wireRecord is the cbor representation of a Record.
type wireRecord struct {
	ID           party.ID
	Threshold    int
	Modulus      []byte
	Coefficients [][]byte
	Commitments  map[party.ID][]byte
	Secret       []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Only finalized records can be marshalled.
func (r *Record) MarshalBinary() ([]byte, error) {
	if !r.finalized {
		return nil, ErrNotFinalized
	}
	var err error
	w := wireRecord{
		ID:          r.ID,
		Threshold:   r.Threshold,
		Commitments: make(map[party.ID][]byte, len(r.Commitments)),
	}
	if w.Modulus, err = r.Polynomial.Modulus().GobEncode(); err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	for _, c := range r.Polynomial.Coefficients() {
		data, err := c.GobEncode()
		if err != nil {
			return nil, fmt.Errorf("keystore: %w", err)
		}
		w.Coefficients = append(w.Coefficients, data)
	}
	for id, c := range r.Commitments {
		data, err := c.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("keystore: commitment of %v: %w", id, err)
		}
		w.Commitments[id] = data
	}
	if w.Secret, err = r.Secret.GobEncode(); err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	return cbor.Marshal(w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The decoded record is validated as if by Finalize.
func (r *Record) UnmarshalBinary(data []byte) error {
	var w wireRecord
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("keystore: %w", err)
	}

	modulus := new(big.Int)
	if err := modulus.GobDecode(w.Modulus); err != nil {
		return fmt.Errorf("keystore: modulus: %w", err)
	}
	coefficients := make([]*big.Int, len(w.Coefficients))
	for i, b := range w.Coefficients {
		coefficients[i] = new(big.Int)
		if err := coefficients[i].GobDecode(b); err != nil {
			return fmt.Errorf("keystore: coefficient %d: %w", i, err)
		}
	}
	f, err := polynomial.FromCoefficients(coefficients, modulus)
	if err != nil {
		return fmt.Errorf("keystore: %w", err)
	}

	out := New(w.ID, w.Threshold)
	out.Polynomial = f
	for id, b := range w.Commitments {
		c := new(vss.Commitment)
		if err = c.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("keystore: commitment of %v: %w", id, err)
		}
		out.Commitments[id] = c
	}
	out.Secret = new(big.Int)
	if err = out.Secret.GobDecode(w.Secret); err != nil {
		return fmt.Errorf("keystore: secret: %w", err)
	}
	if err = out.Finalize(); err != nil {
		return err
	}
	*r = *out
	return nil
}
