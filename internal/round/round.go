package round

import "context"

// Round is a single step of a protocol.
type Round interface {
	// Finalize performs the work of the round: it publishes the round's outgoing messages,
	// waits for the incoming ones it needs, and returns the next round.
	//
	// Misbehaving parties are reported by returning an *Abort round together with a nil error.
	// A non-nil error indicates that the round could not complete, for example because a message
	// did not arrive in time.
	//
	// In the last round, Finalize should return
	//   helper.ResultRound(result), nil
	Finalize(ctx context.Context) (Session, error)

	// Number returns the index of the round.
	Number() Number
}
