package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/picross-capture/internal/logger"
	"github.com/ironsheep/picross-capture/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, release, err := a.newEngine(a.cfg.Recognition.Language)
			if err != nil {
				logger.L().Warn("serve.no_recognition", "err", err)
			} else if release != nil {
				defer release()
			}

			logger.L().Info("serve.start", "version", a.info.Version)
			return server.New(a.cfg, engine, a.info.Version).Run(cmd.Context(), a.stdin, a.stdout)
		},
	}
}
