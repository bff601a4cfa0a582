package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mada "github.com/upic-daq/mada_reader/pkg"
	"github.com/upic-daq/mada_reader/pkg/writer"
)

const BoardOptionName = "board"

// outputFilename replaces the extension of a MADA file with .h5.
func outputFilename(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".h5"
}

func NewConvertCommand(opts *options) *cobra.Command {
	var board string
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Decode MADA files and write their events to HDF5",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := opts.configuration()
			if err != nil {
				return err
			}
			if configuration.FileOut != "" && len(args) > 1 {
				return errors.New("file_out can only be used when converting a single file")
			}

			// The HDF5 library is not reentrant, files are written one after the other.
			var errs []error
			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				fileOut := configuration.FileOut
				if fileOut == "" {
					fileOut = outputFilename(path)
				}
				if err := convertFile(path, fileOut, board, configuration, opts.logger); err != nil {
					opts.logger.Error(err.Error())
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVar(&board, BoardOptionName, "", "Board name stored in the run info, e.g. GBKB-00")
	return cmd
}

func convertFile(path, fileOut, board string, configuration mada.Configuration, logger mada.Logger) error {
	events, skipped, err := mada.ReadMadaFile(path, configuration)
	if err != nil {
		return err
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("%s: %d events decoded, %d frames skipped", path, len(events), len(skipped))
		logger.Info(message, "convert")
	}

	info := writer.RunInfo{RunTag: configuration.Run, Board: board}
	if err := writer.WriteFile(fileOut, info, events, configuration); err != nil {
		return fmt.Errorf("error writing %s: %w", fileOut, err)
	}
	logger.Info(fmt.Sprintf("Written %s", fileOut), "convert")
	return nil
}
