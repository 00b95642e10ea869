package test

import (
	"github.com/taurusgroup/feldman-vss/pkg/party"
)

// PartyIDs returns a party.IDSlice (sorted) with IDs 1, ..., n.
func PartyIDs(n int) party.IDSlice {
	return party.Range(n)
}
