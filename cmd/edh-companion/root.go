package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/EDH-Companion/internal/config"
	"github.com/ramonehamilton/EDH-Companion/internal/console"
	"github.com/ramonehamilton/EDH-Companion/internal/logging"
	"github.com/ramonehamilton/EDH-Companion/internal/session"
	"github.com/ramonehamilton/EDH-Companion/internal/version"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	debug      bool
	assumeYes  bool

	sess *session.Session
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "edh-companion",
		Short:   "EDH collection companion",
		Version: version.GetVersion(),
		Long: `edh-companion cross-references your card inventory with EDHREC
recommendations and Scryfall color identities.

  tag         tag a card list with the collection each card is stored in
  complete    suggest owned cards to finish partial decks
  commanders  rank commanders by how much of your collection they use`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.sess != nil {
				_ = opts.sess.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.edh-companion/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file with EDH_* overrides")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.assumeYes, "yes", "y", false, "Answer yes to every confirmation")

	cmd.AddCommand(newTagCmd(opts))
	cmd.AddCommand(newCompleteCmd(opts))
	cmd.AddCommand(newCommandersCmd(opts))
	return cmd
}

// setup loads the configuration and builds the session for a subcommand.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(o.envFile); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.debug {
		cfg.Run.DebugMode = true
	}

	logger, err := logging.New(cfg.Run.DebugMode)
	if err != nil {
		return err
	}

	con := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), o.assumeYes)
	o.sess, err = session.New(cfg, logger, con)
	return err
}
