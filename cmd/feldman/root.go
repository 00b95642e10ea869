package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taurusgroup/feldman-vss/pkg/protocol"
)

const envPrefix = "FELDMAN"

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feldman",
	Short: "Feldman VSS distributed key generation over secp256k1",
	Long: `feldman runs a Feldman VSS distributed key generation between simulated parties,
and recovers the group secret from a quorum of their key material.

Use 'feldman dkg' to generate key material for every party into --dir.
Use 'feldman recover' to reconstruct the group secret from the records in --dir.
Use 'feldman share' to split a secret with Shamir's scheme.

Every flag can also be set in the config file, or with the FELDMAN_ environment prefix.
For example: FELDMAN_THRESHOLD=3`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME/.feldman")
			viper.AddConfigPath(".")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgFile != "" || !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}

		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.feldman/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("dir", "keys", "directory holding the key material of every party")
	flags.Duration("timeout", 0, "maximum wait for the messages of a round, 0 to wait forever")
	flags.String("session", "", "session identifier shared by all parties (default: random)")
	flags.Int("threshold", 2, "number of shares needed to recover the secret")
	flags.Int("parties", 3, "number of parties")

	for _, key := range []string{"log-level", "dir", "timeout", "session", "threshold", "parties"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dkgCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(shareCmd)
}

// newLogger returns the logger configured by the log-level key.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	return protocol.NewLogger(level), nil
}

// sessionID returns the configured session identifier, or a random one.
func sessionID() ([]byte, error) {
	if s := viper.GetString("session"); s != "" {
		return []byte(s), nil
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return nil, fmt.Errorf("failed to sample session: %w", err)
	}
	return []byte(hex.EncodeToString(id)), nil
}
