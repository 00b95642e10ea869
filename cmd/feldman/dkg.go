package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/feldman-vss/pkg/keystore"
	"github.com/taurusgroup/feldman-vss/pkg/math/curve"
	"github.com/taurusgroup/feldman-vss/pkg/party"
	"github.com/taurusgroup/feldman-vss/pkg/pool"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
	"github.com/taurusgroup/feldman-vss/pkg/transport/memory"
	"github.com/taurusgroup/feldman-vss/protocols/dkg"
	"golang.org/x/sync/errgroup"
)

// dkgCmd represents the dkg command
var dkgCmd = &cobra.Command{
	Use:   "dkg",
	Short: "Run a distributed key generation between --parties simulated parties",
	Long: `Run a distributed key generation between --parties parties, each in its own goroutine,
exchanging messages through an in-memory transport.

The key material of every party is written to --dir, and the group public key is printed.

Examples:
  feldman dkg --parties 7 --threshold 4 --dir ./keys`,
	RunE: runDKG,
}

func runDKG(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	session, err := sessionID()
	if err != nil {
		return err
	}
	n, threshold := viper.GetInt("parties"), viper.GetInt("threshold")
	if err = checkSizes(n, threshold); err != nil {
		return err
	}
	store, err := keystore.NewFileStore(viper.GetString("dir"))
	if err != nil {
		return err
	}

	ids := party.Range(n)
	timeout := viper.GetDuration("timeout")

	tr := memory.New(log)
	defer tr.Close()
	pl := pool.NewPool(0)
	defer pl.TearDown()
	// every party draws from the same reader
	random := pool.NewLockedReader(rand.Reader)

	records := make([]*keystore.Record, len(ids))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			cfg := dkg.Config{
				SelfID:       id,
				Participants: ids,
				Threshold:    threshold,
				Timeout:      timeout,
				Rand:         random,
			}
			result, err := protocol.Run(ctx, dkg.Start(cfg, tr, pl), session, log)
			if err != nil {
				return fmt.Errorf("party %v: %w", id, err)
			}
			records[i] = result.(*keystore.Record)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	for _, r := range records {
		if err = store.Save(cmd.Context(), r); err != nil {
			return err
		}
		log.Debug().Stringer("party", r.ID).Str("path", store.Path(r.ID)).Msg("saved key material")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "parties: %d\n", len(ids))
	fmt.Fprintf(out, "threshold: %d\n", threshold)
	return printPoint(cmd, "public key", records[0].PublicKey())
}

// checkSizes validates the number of parties and the threshold given on the command line.
func checkSizes(n, threshold int) error {
	if n < 1 || n > party.MaxID {
		return fmt.Errorf("parties must be in [1, %d], got %d", party.MaxID, n)
	}
	if threshold < 1 || threshold > n {
		return fmt.Errorf("threshold must be in [1, %d], got %d", n, threshold)
	}
	return nil
}

func printPoint(cmd *cobra.Command, name string, p *curve.Point) error {
	data, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", name, hex.EncodeToString(data))
	fmt.Fprintf(out, "%s digest: %s\n", name, p.Digest())
	return nil
}
