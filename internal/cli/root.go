// Package cli defines the molview command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/H1W0XXX/molview/internal/config"
	"github.com/H1W0XXX/molview/internal/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// app carries what PersistentPreRunE set up to the subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:     "molview",
		Short:   "Draw molecules from SMILES as SVG or PNG",
		Long:    "molview renders 2D depictions of molecules given as SMILES or MDL mol/SD files,\nwith optional bond highlighting, as a command or an HTTP service.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML); MOLVIEW_* variables override it")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	cmd.AddCommand(
		newServeCmd(a),
		newRenderCmd(a),
		newCanonCmd(a),
		newTransparentCmd(),
	)
	return cmd
}

func (a *app) init(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
