package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mada "github.com/upic-daq/mada_reader/pkg"
)

const CheckOrderOptionName = "check-order"

func NewShowCommand(opts *options) *cobra.Command {
	var checkOrder bool
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the header counters of every event of a MADA file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := opts.configuration()
			if err != nil {
				return err
			}
			events, _, err := mada.ReadMadaFile(args[0], configuration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "trigger\tclock\tinput2")
			for _, event := range events {
				fmt.Fprintln(out, event.Header.Col())
			}

			if checkOrder {
				for _, i := range mada.CheckTriggerOrder(events) {
					message := fmt.Sprintf("trigger counter does not increase at event %d: %d after %d",
						events[i].Index, events[i].Header.TriggerCounter, events[i-1].Header.TriggerCounter)
					opts.logger.Error(message)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOrder, CheckOrderOptionName, false, "Report events whose trigger counter does not increase")
	return cmd
}
