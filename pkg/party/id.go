package party

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// ByteSize is the number of bytes required to store an ID.
const ByteSize = 2

// MaxID is the largest value an ID can take.
const MaxID = (1 << (ByteSize * 8)) - 1

// Broadcast is the reserved address of the broadcast channel.
// It is also the evaluation point of the shared secret, so it is never a valid party ID.
const Broadcast ID = 0

var ErrZeroID = errors.New("party: ID 0 is reserved")

// ID represents the identifier of a particular party.
// Valid IDs are in [1, MaxID], since a party's share is f(ID).
type ID uint16

// Int returns the ID as an integer evaluation point.
func (id ID) Int() *big.Int {
	return new(big.Int).SetUint64(uint64(id))
}

// Bytes returns a []byte slice of length party.ByteSize.
func (id ID) Bytes() []byte {
	bytes := make([]byte, ByteSize)
	binary.BigEndian.PutUint16(bytes, uint16(id))
	return bytes
}

// String returns a base 10 representation of ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDFromString reads a base 10 string and attempts to generate an ID from it.
func IDFromString(str string) (ID, error) {
	p, err := strconv.ParseUint(str, 10, ByteSize*8)
	if err != nil {
		return 0, fmt.Errorf("party: %w", err)
	}
	if p == 0 {
		return 0, ErrZeroID
	}
	return ID(p), nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(id.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (ID) Domain() string {
	return "party.ID"
}
