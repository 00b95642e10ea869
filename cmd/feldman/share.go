package main

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/feldman-vss/pkg/math/polynomial"
	"github.com/taurusgroup/feldman-vss/pkg/math/sample"
)

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Split a secret into --parties Shamir shares over the prime 2^127-1",
	Long: `Split a secret into --parties shares, any --threshold of which recover it.

The shares are printed as "id: value", and the secret is reconstructed from the
first --threshold shares as a check.

Examples:
  feldman share --secret 1145141919810893 --threshold 3 --parties 5`,
	RunE: runShare,
}

func init() {
	shareCmd.Flags().String("secret", "", "decimal secret to share (default: random)")
	if err := viper.BindPFlag("secret", shareCmd.Flags().Lookup("secret")); err != nil {
		panic(fmt.Sprintf("failed to bind secret flag: %v", err))
	}
}

func runShare(cmd *cobra.Command, _ []string) error {
	prime := polynomial.Mersenne127()
	threshold := viper.GetInt("threshold")
	n := viper.GetInt("parties")
	if err := checkSizes(n, threshold); err != nil {
		return err
	}

	var secret *big.Int
	if s := viper.GetString("secret"); s != "" {
		var ok bool
		if secret, ok = new(big.Int).SetString(s, 10); !ok {
			return fmt.Errorf("invalid secret %q", s)
		}
		if secret.Sign() < 0 || secret.Cmp(prime) >= 0 {
			return fmt.Errorf("secret must be in [0, 2^127-1)")
		}
	} else {
		secret = sample.IntRange(rand.Reader, big.NewInt(0), prime)
	}

	shares, err := polynomial.ShareSecret(rand.Reader, secret, threshold, n, prime)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, share := range shares {
		fmt.Fprintf(out, "%v: %v\n", share.ID, share.Value)
	}

	reconstructed, err := polynomial.Interpolate(shares[:threshold], prime)
	if err != nil {
		return err
	}
	if reconstructed.Cmp(secret) != 0 {
		return fmt.Errorf("reconstruction failed")
	}
	fmt.Fprintf(out, "secret: %v\n", reconstructed)
	return nil
}
