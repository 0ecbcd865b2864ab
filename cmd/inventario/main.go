// Command inventario serves the product inventory web application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/softura/inventario/config"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stderr)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var sErr *ServerError
		if errors.As(err, &sErr) {
			fmt.Fprintf(stderr, "inventario: %s\n", sErr.Error())
			return sErr.ExitCode
		}
		fmt.Fprintf(stderr, "inventario: %v\n", err)
		return ExitConfigError
	}
	return ExitSuccess
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "inventario",
		Short: "Product inventory web application",
		Long: `Inventario keeps a list of products grouped into categories and serves
HTML pages to list, search, create, edit and delete them.

Configuration is read from an optional config file, an optional .env file and
INVENTARIO_* environment variables (for example INVENTARIO_DATABASE_HOST).`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newInitDBCommand())
	return root
}

// Flags shared by every subcommand
const (
	configFlag  = "config"
	envFileFlag = "env-file"
)

// newCommonFlags returns a fresh flag set for one subcommand.
func newCommonFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		configFlag: &cobraflags.StringFlag{
			Name:  configFlag,
			Value: "",
			Usage: "Path to a config file (yaml, json or toml)",
		},
		envFileFlag: &cobraflags.StringFlag{
			Name:  envFileFlag,
			Value: ".env",
			Usage: "Path to a .env file; ignored when missing",
		},
	}
}

// loadConfig reads the configuration named by the common flags.
func loadConfig(flags map[string]cobraflags.Flag) (*config.Config, error) {
	cfg, err := config.Load(
		flags[configFlag].GetString(),
		flags[envFileFlag].GetString(),
	)
	if err != nil {
		return nil, &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}
	return cfg, nil
}
