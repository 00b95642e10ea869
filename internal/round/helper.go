package round

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/taurusgroup/feldman-vss/internal/hash"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/pool"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
	"golang.org/x/sync/errgroup"
)

// topicPrefixBytes is the number of SSID bytes used to namespace the topics of a session.
const topicPrefixBytes = 8

// Helper implements Session without Round, and can therefore be embedded in the first round of a protocol
// in order to satisfy the Session interface.
type Helper struct {
	info Info

	// Pool allows us to parallelize certain operations
	Pool *pool.Pool

	// partyIDs is a sorted slice of Info.PartyIDs.
	partyIDs party.IDSlice
	// otherPartyIDs is the same as partyIDs without selfID
	otherPartyIDs party.IDSlice

	// ssid the unique identifier for this protocol execution
	ssid []byte
	// topicPrefix namespaces every topic published during this execution.
	topicPrefix string

	transport transport.Transport
}

// NewSession creates a new *Helper which can be embedded in the first Round,
// so that the full struct implements Session.
// `sessionID` is an optional byte slice that can be provided by the user.
// When used, it should be unique for each execution of the protocol,
// since two executions with the same SSID share their transport topics.
// `auxInfo` is a variable list of objects which should be included in the session's hash state.
func NewSession(info Info, sessionID []byte, t transport.Transport, pl *pool.Pool, auxInfo ...hash.WriterToWithDomain) (*Helper, error) {
	if t == nil {
		return nil, errors.New("session: nil transport")
	}

	partyIDs := party.NewIDSlice(info.PartyIDs)
	if !partyIDs.Valid() {
		return nil, errors.New("session: partyIDs invalid")
	}

	// verify our ID is present
	if !partyIDs.Contains(info.SelfID) {
		return nil, errors.New("session: selfID not included in partyIDs")
	}

	// the number of users satisfies the threshold
	if n := len(partyIDs); info.Threshold < 1 || info.Threshold > n {
		return nil, fmt.Errorf("session: threshold %d is invalid for number of parties %d", info.Threshold, n)
	}

	if info.Timeout < 0 {
		return nil, fmt.Errorf("session: negative timeout %v", info.Timeout)
	}

	var err error
	h := hash.New()

	if sessionID != nil {
		if err = h.WriteAny(&hash.BytesWithDomain{
			TheDomain: "Session ID",
			Bytes:     sessionID,
		}); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	if err = h.WriteAny(&hash.BytesWithDomain{
		TheDomain: "Protocol ID",
		Bytes:     []byte(info.ProtocolID),
	}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	if err = h.WriteAny(&hash.BytesWithDomain{
		TheDomain: "Group Name",
		Bytes:     []byte(curve.Name),
	}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	if err = h.WriteAny(partyIDs); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	if err = h.WriteAny(threshold(info.Threshold)); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	for _, a := range auxInfo {
		if a == nil {
			continue
		}
		if err = h.WriteAny(a); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	ssid := h.Sum()
	return &Helper{
		info:          info,
		Pool:          pl,
		partyIDs:      partyIDs,
		otherPartyIDs: partyIDs.Remove(info.SelfID),
		ssid:          ssid,
		topicPrefix:   info.ProtocolID + "/" + hex.EncodeToString(ssid[:topicPrefixBytes]),
		transport:     t,
	}, nil
}

// Topic returns name namespaced to this protocol execution.
func (h *Helper) Topic(name string) string {
	return h.topicPrefix + "/" + name
}

// BroadcastMessage publishes msg on the broadcast channel of topic.
func (h *Helper) BroadcastMessage(ctx context.Context, topic string, msg *transport.Message) error {
	key := transport.BroadcastKey(h.Topic(topic), h.info.SelfID)
	if err := h.transport.Publish(ctx, key, msg); err != nil {
		return fmt.Errorf("broadcast %s: %w", topic, err)
	}
	return nil
}

// SendMessage publishes msg on topic, addressed to party `to` only.
func (h *Helper) SendMessage(ctx context.Context, topic string, to party.ID, msg *transport.Message) error {
	if to == party.Broadcast {
		return h.BroadcastMessage(ctx, topic, msg)
	}
	key := transport.Key{Topic: h.Topic(topic), From: h.info.SelfID, To: to}
	if err := h.transport.Publish(ctx, key, msg); err != nil {
		return fmt.Errorf("send %s to %v: %w", topic, to, err)
	}
	return nil
}

// ReceiveBroadcast waits for the message broadcast by `from` on topic.
func (h *Helper) ReceiveBroadcast(ctx context.Context, topic string, from party.ID) (*transport.Message, error) {
	msg, err := h.transport.Receive(ctx, transport.BroadcastKey(h.Topic(topic), from))
	if err != nil {
		return nil, fmt.Errorf("receive %s from %v: %w", topic, from, err)
	}
	return msg, nil
}

// ReceiveMessage waits for the message sent by `from` to this party on topic.
func (h *Helper) ReceiveMessage(ctx context.Context, topic string, from party.ID) (*transport.Message, error) {
	key := transport.Key{Topic: h.Topic(topic), From: from, To: h.info.SelfID}
	msg, err := h.transport.Receive(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("receive %s from %v: %w", topic, from, err)
	}
	return msg, nil
}

// WithTimeout bounds the waits of a single round by the session's timeout.
// The returned context is only cancelled by its parent when no timeout is set.
func (h *Helper) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.info.Timeout > 0 {
		return context.WithTimeout(ctx, h.info.Timeout)
	}
	return context.WithCancel(ctx)
}

// ReceiveAll waits concurrently for the messages of every party in from.
// If broadcast is true, the broadcast channel of topic is read, otherwise the messages addressed to this party.
// The first failure cancels the remaining receptions.
func (h *Helper) ReceiveAll(ctx context.Context, topic string, from party.IDSlice, broadcast bool) (map[party.ID]*transport.Message, error) {
	var mtx sync.Mutex
	messages := make(map[party.ID]*transport.Message, len(from))
	g, ctx := errgroup.WithContext(ctx)
	for _, j := range from {
		j := j
		g.Go(func() error {
			var (
				msg *transport.Message
				err error
			)
			if broadcast {
				msg, err = h.ReceiveBroadcast(ctx, topic, j)
			} else {
				msg, err = h.ReceiveMessage(ctx, topic, j)
			}
			if err != nil {
				return err
			}
			mtx.Lock()
			messages[j] = msg
			mtx.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return messages, nil
}

// ResultRound returns a round that contains only the result of the protocol.
// This indicates to the used that the protocol is finished.
func (h *Helper) ResultRound(result interface{}) Session {
	return &Output{
		Helper: h,
		Result: result,
	}
}

// AbortRound returns a round that contains only the culprits that were able to be identified during
// a faulty execution of the protocol. The error returned by Round.Finalize() in this case should still be nil.
func (h *Helper) AbortRound(err error, culprits ...party.ID) Session {
	return &Abort{
		Helper:   h,
		Culprits: culprits,
		Err:      err,
	}
}

// ProtocolID is an identifier for this protocol.
func (h *Helper) ProtocolID() string { return h.info.ProtocolID }

// FinalRoundNumber is the number of rounds before the output round.
func (h *Helper) FinalRoundNumber() Number { return h.info.FinalRoundNumber }

// SSID the unique identifier for this protocol execution.
func (h *Helper) SSID() []byte { return h.ssid }

// SelfID is this party's ID.
func (h *Helper) SelfID() party.ID { return h.info.SelfID }

// PartyIDs is a sorted slice of participating parties in this protocol.
func (h *Helper) PartyIDs() party.IDSlice { return h.partyIDs }

// OtherPartyIDs returns a sorted list of parties that does not contain SelfID.
func (h *Helper) OtherPartyIDs() party.IDSlice { return h.otherPartyIDs }

// Threshold is the number of shares needed to recover the secret.
func (h *Helper) Threshold() int { return h.info.Threshold }

// N returns the number of participants.
func (h *Helper) N() int { return len(h.partyIDs) }
