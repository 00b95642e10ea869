package round

import (
	"context"
	"errors"
)

// ErrFinalized is returned when Finalize is called on the output round.
var ErrFinalized = errors.New("round: result round is already finalized")

// Output is an empty round containing the output of the protocol.
type Output struct {
	*Helper
	Result interface{}
}

func (r *Output) Finalize(context.Context) (Session, error) { return r, ErrFinalized }

// Number returns the round following the final round.
func (r *Output) Number() Number { return r.FinalRoundNumber() + 1 }
