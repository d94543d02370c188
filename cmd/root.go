// Package cmd wires configuration, storage and the HTTP server into the
// squares command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/bellapacxx/squares-backend/config"
	"github.com/bellapacxx/squares-backend/store"
	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "squares",
		Short:         "Backend for football squares office pools.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.ApplyEnv(cmd.Root().PersistentFlags())
			return logger.Setup(cfg.LogLevel, cfg.LogEncoding)
		},
	}
	cfg.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(cfg),
		newMigrateCmd(cfg),
		newTokenCmd(cfg),
		newSuperAdminCmd(cfg),
	)
	root.CompletionOptions.HiddenDefaultCmd = true
	return root
}

// Execute runs the command line until ctx is cancelled or the chosen
// command returns.
func Execute(ctx context.Context) error {
	config.LoadEnv()
	cfg := &config.Config{}
	return newRootCmd(cfg).ExecuteContext(ctx)
}

// openStore returns the configured backend and a func that releases it.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warnf("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), func() {}, nil
	case config.StorePostgres:
		db, err := config.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := config.Migrate(db); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store.NewGormStore(db), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
