package main

import (
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/softura/inventario/config"
	"github.com/softura/inventario/models"
)

func newInitDBCommand() *cobra.Command {
	flags := newCommonFlags()
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Create the tables and the default categories",
		Long: `Create the categorias and productos tables when they do not exist and,
if categorias is empty, insert the default categories.

Running it again on an initialized database changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initDBCommand(cmd, flags)
		},
	}

	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func initDBCommand(cmd *cobra.Command, flags map[string]cobraflags.Flag) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log, os.Stderr)

	db, err := models.Open(cfg.Database, logger)
	if err != nil {
		return &ServerError{Op: "InitDB", Err: err, ExitCode: ExitDatabaseError}
	}
	defer func() {
		if err := models.Close(db); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	if err := models.EnsureSchema(db.WithContext(cmd.Context())); err != nil {
		return &ServerError{Op: "InitDB", Err: err, ExitCode: ExitDatabaseError}
	}

	inserted, err := models.SeedCategories(cmd.Context(), db, models.DefaultCategories)
	if err != nil {
		return &ServerError{Op: "InitDB", Err: err, ExitCode: ExitDatabaseError}
	}

	logger.Info("database initialized",
		"driver", cfg.Database.Driver,
		"categories_inserted", inserted,
	)
	return nil
}
