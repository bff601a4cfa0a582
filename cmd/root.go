package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	mada "github.com/upic-daq/mada_reader/pkg"
)

const (
	ConfigOptionName    = "config"
	VerbosityOptionName = "verbosity"
	WorkersOptionName   = "workers"
)

// options are the persistent flags shared by every subcommand. Negative or zero
// values keep what the configuration file says.
type options struct {
	configFile string
	verbosity  int
	workers    int
	logger     mada.Logger
}

func (o *options) configuration() (mada.Configuration, error) {
	configuration, err := mada.LoadConfiguration(o.configFile)
	if err != nil {
		return configuration, fmt.Errorf("error reading configuration file: %w", err)
	}
	if o.verbosity >= 0 {
		configuration.Verbosity = o.verbosity
	}
	if o.workers > 0 {
		configuration.NumWorkers = o.workers
	}
	if configuration.Verbosity > 0 {
		if o.configFile != "" {
			o.logger.Info(fmt.Sprintf("Reading configuration file: %s", o.configFile), "main")
		}
		mada.PrintConfiguration(configuration, o.logger)
	}
	return configuration, nil
}

func NewRootCommand(out io.Writer, logger mada.Logger) *cobra.Command {
	opts := &options{logger: logger}
	cmd := &cobra.Command{
		Use:           "madareader",
		Short:         "Tool to decode and calibrate uPIC MADA files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			mada.SetLogger(logger)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewGainCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.PersistentFlags().StringVar(&opts.configFile, ConfigOptionName, "", "Configuration file path (JSON or YAML)")
	cmd.PersistentFlags().IntVar(&opts.verbosity, VerbosityOptionName, -1, "Verbosity level, overrides the configuration file")
	cmd.PersistentFlags().IntVar(&opts.workers, WorkersOptionName, 0, "Number of parallel workers, overrides the configuration file")
	return cmd
}
