package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/math/sample"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"github.com/taurusgroup/feldman-vss/pkg/transport/memory"
	"github.com/taurusgroup/feldman-vss/protocols/recovery"
	"golang.org/x/sync/errgroup"
)

// recoverCmd represents the recover command
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Reconstruct the group secret from a quorum of the parties in --dir",
	Long: `Reconstruct the group secret from the key material of a quorum of parties.

Every member of the quorum publishes its share, so the secret is revealed in the clear.
Without --quorum, a random quorum of at least --threshold parties is chosen.

Examples:
  feldman recover --dir ./keys --quorum 1,3,5,7`,
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().String("quorum", "", "comma separated IDs of the quorum (default: random)")
	if err := viper.BindPFlag("quorum", recoverCmd.Flags().Lookup("quorum")); err != nil {
		panic(fmt.Sprintf("failed to bind quorum flag: %v", err))
	}
}

func runRecover(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	session, err := sessionID()
	if err != nil {
		return err
	}
	store, err := keystore.NewFileStore(viper.GetString("dir"))
	if err != nil {
		return err
	}

	ids, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no key material in %s", viper.GetString("dir"))
	}
	records := make(map[party.ID]*keystore.Record, len(ids))
	for _, id := range ids {
		if records[id], err = store.Load(cmd.Context(), id); err != nil {
			return err
		}
	}

	threshold := records[ids[0]].T()
	if threshold > len(ids) {
		return fmt.Errorf("found %d records for a threshold of %d", len(ids), threshold)
	}
	quorum, err := parseQuorum(viper.GetString("quorum"))
	if err != nil {
		return err
	}
	if quorum == nil {
		quorum = randomQuorum(rand.Reader, ids, threshold)
	}
	for _, id := range quorum {
		if _, ok := records[id]; !ok {
			return fmt.Errorf("no key material for party %v", id)
		}
	}

	tr := memory.New(log)
	defer tr.Close()

	results := make([]*recovery.Result, len(quorum))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, id := range quorum {
		i, id := i, id
		g.Go(func() error {
			cfg := recovery.Config{
				Record:  records[id],
				Quorum:  quorum,
				Timeout: viper.GetDuration("timeout"),
			}
			result, err := protocol.Run(ctx, recovery.Start(cfg, tr, nil), session, log)
			if err != nil {
				return fmt.Errorf("party %v: %w", id, err)
			}
			results[i] = result.(*recovery.Result)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	secret := curve.ScalarFromInt(results[0].Secret).Bytes()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "quorum: %v\n", quorum)
	fmt.Fprintf(out, "secret: %x\n", secret[:])
	return printPoint(cmd, "public key", results[0].PublicKey)
}

// parseQuorum reads a comma separated list of IDs. An empty string returns nil.
func parseQuorum(s string) (party.IDSlice, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	ids := make([]party.ID, 0, len(fields))
	for _, field := range fields {
		id, err := party.IDFromString(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid quorum %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	quorum := party.NewIDSlice(ids)
	if !quorum.Valid() {
		return nil, fmt.Errorf("invalid quorum %q", s)
	}
	return quorum, nil
}

// randomQuorum returns a uniformly random subset of ids, whose size is uniform in [threshold, len(ids)].
func randomQuorum(rand io.Reader, ids party.IDSlice, threshold int) party.IDSlice {
	n := len(ids)
	size := int(sample.IntRange(rand, big.NewInt(int64(threshold)), big.NewInt(int64(n+1))).Int64())

	// partial Fisher-Yates shuffle
	shuffled := ids.Copy()
	for i := 0; i < size; i++ {
		j := i + int(sample.IntRange(rand, big.NewInt(0), big.NewInt(int64(n-i))).Int64())
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return party.NewIDSlice(shuffled[:size])
}
