// File: cmd/serve.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/config"
	"github.com/icherkasov/reportgen/internal/draft"
	"github.com/icherkasov/reportgen/internal/observability"
	"github.com/icherkasov/reportgen/internal/render"
	"github.com/icherkasov/reportgen/internal/server"
)

// newServeCmd creates the `serve` command: the interactive form server.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the report form web server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so they override the config file and env vars with
			// the right precedence.
			if err := viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			return viper.BindPFlag("drafts.dir", cmd.Flags().Lookup("drafts-dir"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			drafts, err := draft.NewStore(cfg.Drafts.Dir, logger)
			if err != nil {
				return fmt.Errorf("failed to open draft store: %w", err)
			}
			logger.Info("Draft store ready", zap.String("dir", drafts.Dir()))

			// Seed a first-run store with the example report so the drafts
			// list is never empty on a fresh install.
			if infos, err := drafts.List(); err == nil && len(infos) == 0 {
				if _, err := drafts.Save(schemas.ExampleModel()); err != nil {
					logger.Warn("Failed to seed example draft", zap.Error(err))
				}
			}

			srv := server.New(cfg.Server, render.NewPipeline(logger), drafts, logger)
			return srv.Run(ctx)
		},
	}

	serveCmd.Flags().String("addr", "", "listen address (host:port)")
	serveCmd.Flags().String("drafts-dir", "", "directory for saved drafts")
	return serveCmd
}
