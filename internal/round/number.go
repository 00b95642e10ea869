package round

import (
	"encoding/binary"
	"io"
)

// Number is the index of the current round.
// 0 indicates the abort round, 1 is the first round.
type Number uint16

// WriteTo implements io.WriterTo interface.
func (i Number) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(i))
	n, err := w.Write(buf)
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (Number) Domain() string {
	return "Round Number"
}

// threshold wraps the threshold of a session so that it can be written to a hash.
type threshold uint32

func (t threshold) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(t))
	n, err := w.Write(buf)
	return int64(n), err
}

func (threshold) Domain() string { return "Threshold" }
