// Package cli implements the pocketchat command-line surface. The store
// itself is an in-process library; these commands are the development
// harness that exercises it against a real backend.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketchat/internal/config"
	"github.com/soyeahso/pocketchat/internal/domain"
	"github.com/soyeahso/pocketchat/internal/kv"
	"github.com/soyeahso/pocketchat/internal/logging"
	"github.com/soyeahso/pocketchat/internal/store"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pocketchat",
		Short: "pocketchat, a local-first conversation and messaging store",
		Long:  "pocketchat manages conversations, messages, drafts and contacts in a local key-value store, with no server and no network.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.pocketchat/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newContactsCmd())
	cmd.AddCommand(newConversationsCmd())
	cmd.AddCommand(newMessageCmd())
	cmd.AddCommand(newDraftCmd())

	return cmd
}

// openStore loads the config, opens the configured backend and returns
// the store plus the configured local user. The returned close func
// releases the backend.
func openStore(ctx context.Context) (*store.Store, domain.CurrentUser, func(), error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, domain.CurrentUser{}, nil, err
	}
	if cfg.Logging.Level != "" && logLevel == "" {
		log = logging.New(nil, cfg.Logging.Level)
	}

	if err := paths.EnsureDirs(); err != nil {
		return nil, domain.CurrentUser{}, nil, err
	}

	kvs, err := kv.Open(ctx, cfg.Storage, paths.DB, log)
	if err != nil {
		return nil, domain.CurrentUser{}, nil, err
	}

	user := domain.CurrentUser{
		ID:     cfg.User.ID,
		Name:   cfg.User.Name,
		Avatar: cfg.User.Avatar,
		Role:   cfg.User.Role,
	}
	return store.New(kvs, log), user, func() { kvs.Close() }, nil
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
