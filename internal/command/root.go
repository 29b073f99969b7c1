// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/utilities"
)

type envKey struct{}

// env is what PersistentPreRunE hands to every sub-command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func fromContext(ctx context.Context) (*env, error) {
	e, ok := ctx.Value(envKey{}).(*env)
	if !ok {
		return nil, errors.New("command environment not initialized")
	}
	return e, nil
}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "investd [command]",
		Short:        "Renewable energy investment tracking API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := utilities.Init(cfg.Log)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger.Debug("configuration loaded", zap.Stringer("config", cfg))
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, logger: logger}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if e, err := fromContext(cmd.Context()); err == nil {
				_ = e.logger.Sync()
			}
		},
	}

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
	)
	return cmd
}
