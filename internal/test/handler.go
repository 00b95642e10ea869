package test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"golang.org/x/sync/errgroup"
)

// RunAll runs the protocol returned by start for every party in ids concurrently, and blocks until all have finished.
// Parties do not cancel each other, so the returned maps hold the outcome of every party.
func RunAll(ctx context.Context, ids party.IDSlice, start func(id party.ID) protocol.StartFunc, sessionID []byte) (map[party.ID]interface{}, map[party.ID]error) {
	var (
		mtx     sync.Mutex
		g       errgroup.Group
		results = make(map[party.ID]interface{}, len(ids))
		errs    = make(map[party.ID]error)
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			result, err := protocol.Run(ctx, start(id), sessionID, zerolog.Nop())
			mtx.Lock()
			defer mtx.Unlock()
			if err != nil {
				errs[id] = err
				return nil
			}
			results[id] = result
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}
