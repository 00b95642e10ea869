package curve

import (
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	// DigestIdentity is the digest of the identity element.
	DigestIdentity = "ZERO_POINT"
	// DigestGenerator is the digest of G.
	DigestGenerator = "GENERATOR"

	digestSize = 16
)

var generator = NewBasePoint()

// Digest returns a canonical string for v.
//
// The identity and the generator map to fixed tokens. Any other point is
// hashed in compressed form with BLAKE2b-128 and base58 encoded, so that
// two representations of the same element always yield the same digest.
func (v *Point) Digest() string {
	if v.IsIdentity() {
		return DigestIdentity
	}
	if v.Equal(generator) {
		return DigestGenerator
	}
	data, _ := v.MarshalBinary()
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(data)
	return base58.Encode(h.Sum(nil))
}

// DigestEqual returns true if p and q have the same Digest.
func DigestEqual(p, q *Point) bool {
	return p.Digest() == q.Digest()
}
