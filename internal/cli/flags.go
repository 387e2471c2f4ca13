package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlhartme/sushi-sub000/internal/app"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig  = "config"
	FlagVars    = "vars"
	FlagSet     = "set"
	FlagModes   = "modes"
	FlagForce   = "force"
	FlagDryRun  = "dry-run"
	FlagNoColor = "no-color"
	FlagQuiet   = "quiet"
	FlagDebug   = "debug"

	// Flag descriptions
	DescConfig  = "Path to config file (default: .sushi.* in the source directory)"
	DescVars    = "Variables file (YAML, TOML or JSON)"
	DescSet     = "Set a variable (key=value, repeatable)"
	DescModes   = "Propagate and compare permission bits"
	DescForce   = "Force overwrite"
	DescDryRun  = "Show changes without writing the destination"
	DescNoColor = "Disable colored output"
	DescQuiet   = "Suppress output"
	DescDebug   = "Enable debug logging"
)

// engineFlags are the flags shared by commands that stamp a source tree.
type engineFlags struct {
	config string
	vars   string
	set    []string
	modes  bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, FlagConfig, "c", "", DescConfig)
	cmd.Flags().StringVar(&f.vars, FlagVars, "", DescVars)
	cmd.Flags().StringArrayVarP(&f.set, FlagSet, "s", nil, DescSet)
	cmd.Flags().BoolVar(&f.modes, FlagModes, false, DescModes)
}

// options builds engine options for SRC DEST arguments. --modes overrides
// the configuration only when given.
func (f *engineFlags) options(cmd *cobra.Command, args []string) (app.EngineOptions, error) {
	if len(args) != 2 {
		return app.EngineOptions{}, fmt.Errorf("expected SRC and DEST, got %d arguments", len(args))
	}
	opts := app.EngineOptions{
		Source:     args[0],
		Dest:       args[1],
		ConfigPath: f.config,
		VarsFile:   f.vars,
		Set:        f.set,
	}
	if cmd.Flags().Changed(FlagModes) {
		modes := f.modes
		opts.Modes = &modes
	}
	return opts, nil
}
