package round

import (
	"context"

	"github.com/taurusgroup/feldman-vss/pkg/party"
)

// Abort is an empty round containing a list of parties who misbehaved.
type Abort struct {
	*Helper
	Culprits []party.ID
	Err      error
}

func (r *Abort) Finalize(context.Context) (Session, error) { return r, nil }
func (Abort) Number() Number                              { return 0 }
