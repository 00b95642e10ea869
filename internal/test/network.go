package test

import (
	"context"
	"sync"

	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/transport"
)

// Rule describes a hook that can be applied to the messages of a protocol execution.
type Rule interface {
	// ModifyMessage returns the message actually published under key.
	// Returning nil drops the message.
	ModifyMessage(key transport.Key, msg *transport.Message) *transport.Message
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(key transport.Key, msg *transport.Message) *transport.Message

// ModifyMessage implements Rule.
func (f RuleFunc) ModifyMessage(key transport.Key, msg *transport.Message) *transport.Message {
	return f(key, msg)
}

// Network wraps a transport.Transport, and lets tests tamper with the messages of some parties.
type Network struct {
	transport.Transport

	mtx     sync.Mutex
	rules   map[party.ID]Rule
	offline map[party.ID]bool
}

func NewNetwork(t transport.Transport) *Network {
	return &Network{
		Transport: t,
		rules:     make(map[party.ID]Rule),
		offline:   make(map[party.ID]bool),
	}
}

// SetRule applies rule to every message published by id.
func (n *Network) SetRule(id party.ID, rule Rule) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.rules[id] = rule
}

// Quit silently drops every message id publishes from now on.
func (n *Network) Quit(id party.ID) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	n.offline[id] = true
}

// Publish implements transport.Transport.
func (n *Network) Publish(ctx context.Context, key transport.Key, msg *transport.Message) error {
	n.mtx.Lock()
	rule, offline := n.rules[key.From], n.offline[key.From]
	n.mtx.Unlock()

	if offline {
		return nil
	}
	if rule != nil {
		if msg = rule.ModifyMessage(key, msg); msg == nil {
			return nil
		}
	}
	return n.Transport.Publish(ctx, key, msg)
}
