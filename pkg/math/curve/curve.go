package curve

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// Name of the group.
	Name = "secp256k1"
	// ScalarBytes is the size of a big-endian encoded Scalar.
	ScalarBytes = 32
	// PointBytes is the size of a compressed non-identity Point.
	PointBytes = 33
)

var orderBytes = secp256k1.Params().N.Bytes()

var orderInt = new(big.Int).SetBytes(orderBytes)

// Order returns the order of the group as a new saferith.Modulus.
// saferith may resize the limbs of a modulus it compares against,
// so each caller gets its own copy.
func Order() *saferith.Modulus {
	return saferith.ModulusFromBytes(orderBytes)
}

// OrderInt returns a copy of the order of the group.
func OrderInt() *big.Int {
	return new(big.Int).Set(orderInt)
}
