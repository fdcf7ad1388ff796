// Package cli wires the tempo command line: the player TUI and the
// catalog management commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/tempo/internal/config"
	"github.com/llehouerou/tempo/internal/errmsg"
)

// options is shared by every command of one invocation.
type options struct {
	cfgFile string
	cfg     *config.Config
}

// NewRootCmd builds the command tree. Running it without a subcommand
// starts the player with the whole catalog queued.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "tempo",
		Short: "Play music from your catalog in the terminal",
		Long: `Tempo is a terminal music player. Tracks live in a local catalog;
anything else you can point at (a file, a URL) plays directly.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return o.loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, o, nil)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&o.cfgFile, "config", "c", "",
		"config file (default: $XDG_CONFIG_HOME/tempo/config.toml)")

	root.AddCommand(newPlayCmd(o), newCatalogCmd(o), newVersionCmd())
	return root
}

func (o *options) loadConfig() error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return errmsg.Error(errmsg.OpConfigLoad, o.cfgFile, err)
	}
	o.cfg = cfg
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
