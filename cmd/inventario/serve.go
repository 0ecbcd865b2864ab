package main

import (
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/softura/inventario/config"
)

func newServeCommand() *cobra.Command {
	flags := newCommonFlags()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server and block until SIGINT or SIGTERM, then finish the
requests in flight and close the database pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveCommand(cmd, flags)
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func serveCommand(cmd *cobra.Command, flags map[string]cobraflags.Flag) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Log, os.Stderr)
	logger.Info("starting inventario",
		"version", Version,
		"driver", cfg.Database.Driver,
		"config", flags[configFlag].GetString(),
	)

	server, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	return server.Start(cmd.Context())
}
