package protocol

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/feldman-vss/internal/round"
	"github.com/taurusgroup/feldman-vss/pkg/party"
)

// StartFunc is function that creates the first round of a protocol.
// The sessionID is an optional identifier which all parties of the execution must agree on.
// If the creation fails (likely due to misconfiguration), and error is returned.
type StartFunc func(sessionID []byte) (round.Session, error)

// Handler represents an execution of a given protocol.
// Since rounds exchange their messages through a transport, the handler only needs to
// finalize each round in turn until the output or an abort is reached.
type Handler struct {
	mtx sync.Mutex

	Log zerolog.Logger

	r      round.Session
	result interface{}
	err    error
}

// NewLogger returns the console logger used when none is configured.
func NewLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// NewHandler expects a StartFunc for the desired protocol. It returns a handler that can be run once.
func NewHandler(create StartFunc, sessionID []byte, log zerolog.Logger) (*Handler, error) {
	r, err := create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to create round: %w", err)
	}
	h := &Handler{r: r}
	h.Log = log.With().
		Str("protocol", r.ProtocolID()).
		Stringer("party", r.SelfID()).
		Int("round", int(r.Number())).
		Logger()
	return h, nil
}

// Run finalizes the rounds of the protocol until it completes, aborts, or ctx is done.
//
// Every error returned is a protocol.Error, which identifies the round and, when known, the misbehaving party.
func (h *Handler) Run(ctx context.Context) (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.r == nil {
		return h.result, h.err
	}

	h.Log.Info().Msg("start")
	for {
		switch r := h.r.(type) {
		case *round.Output:
			h.result = r.Result
			h.r = nil
			if h.result == nil {
				h.err = Error{
					RoundNumber: r.Number(),
					Err:         errors.New("failed without error before reaching the final round"),
				}
				return nil, h.err
			}
			h.Log.Info().Msg("done")
			return h.result, nil
		case *round.Abort:
			return nil, h.abort(r.Err, r.Culprits...)
		}

		number := h.r.Number()
		next, err := h.r.Finalize(ctx)
		if err != nil {
			return nil, h.abort(err)
		}

		// an abort keeps the number of the round which detected the fault
		if abort, ok := next.(*round.Abort); ok {
			return nil, h.abort(abort.Err, abort.Culprits...)
		}

		h.r = next
		h.Log = h.Log.With().Int("round", int(next.Number())).Logger()
		h.Log.Info().Uint16("previous", uint16(number)).Msg("round advanced")
	}
}

// Result returns the protocol result if the protocol completed successfully. Otherwise an error is returned.
func (h *Handler) Result() (interface{}, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.result != nil {
		return h.result, nil
	}
	if h.err != nil {
		return nil, h.err
	}
	return nil, errors.New("protocol: not finished")
}

// abort wraps a Round error with information about the current round and a possible culprit.
// Only the first culprit is reported in the Error, all of them are logged.
func (h *Handler) abort(err error, culprits ...party.ID) error {
	roundErr := Error{
		RoundNumber: h.r.Number(),
		Err:         err,
	}
	if len(culprits) > 0 {
		roundErr.Culprit = culprits[0]
	}
	h.r = nil
	h.err = roundErr

	ev := h.Log.Error().Err(err)
	if len(culprits) > 0 {
		ev = ev.Interface("culprits", culprits)
	}
	ev.Msg("abort")
	return roundErr
}

// Run creates and runs the protocol returned by create, logging to log.
func Run(ctx context.Context, create StartFunc, sessionID []byte, log zerolog.Logger) (interface{}, error) {
	h, err := NewHandler(create, sessionID, log)
	if err != nil {
		return nil, err
	}
	return h.Run(ctx)
}
