package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mada "github.com/upic-daq/mada_reader/pkg"
)

const (
	EventsOptionName = "events"
	SeedOptionName   = "seed"
)

func NewGenerateCommand(opts *options) *cobra.Command {
	var nEvents int
	var seed int64
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Write a synthetic MADA file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := opts.configuration()
			if err != nil {
				return err
			}
			if nEvents < 0 {
				return fmt.Errorf("--%s must not be negative", EventsOptionName)
			}

			events := mada.GenerateEvents(nEvents, configuration.ClockDepth, seed)
			data, err := mada.EncodeEvents(events, configuration.ClockDepth)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return err
			}
			if configuration.Verbosity > 0 {
				message := fmt.Sprintf("Written %d events (%d bytes) to %s", len(events), len(data), args[0])
				opts.logger.Info(message, "generate")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&nEvents, EventsOptionName, 100, "Number of events")
	cmd.Flags().Int64Var(&seed, SeedOptionName, 1, "Random seed")
	return cmd
}
