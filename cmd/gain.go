package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mada "github.com/upic-daq/mada_reader/pkg"
	"github.com/upic-daq/mada_reader/pkg/cache"
)

const (
	MadaConfigOptionName = "mada-config"
	DirOptionName        = "dir"
	FromOptionName       = "from"
	ToOptionName         = "to"
	StoreOptionName      = "store"
	CacheOptionName      = "cache"
)

type gainOptions struct {
	madaConfig string
	dir        string
	from       int
	to         int
	store      bool
	cachePath  string
}

func NewGainCommand(opts *options) *cobra.Command {
	gain := &gainOptions{}
	cmd := &cobra.Command{
		Use:   "gain",
		Short: "Average the waveform amplitudes of every active board of a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := opts.configuration()
			if err != nil {
				return err
			}
			if gain.cachePath != "" {
				configuration.CachePath = gain.cachePath
			}
			if gain.store {
				configuration.NoDB = false
			}

			topology, err := mada.LoadMadaConfig(gain.madaConfig)
			if err != nil {
				return fmt.Errorf("error reading MADA config: %w", err)
			}
			files, err := mada.ScanMadaFiles(gain.dir, topology, gain.from, gain.to)
			if err != nil {
				return err
			}
			if configuration.Verbosity > 0 {
				message := fmt.Sprintf("Found %d files for boards %v", len(files), topology.AvailableBoards())
				opts.logger.Info(message, "gain")
			}

			var amplitudeCache mada.AmplitudeCache
			if configuration.CachePath != "" {
				c, err := cache.Open(configuration.CachePath)
				if err != nil {
					return err
				}
				defer c.Close()
				amplitudeCache = c
			}

			aggregator := mada.NewAggregator(configuration, mada.OSFileSource{}, amplitudeCache)
			results, err := aggregator.Run(cmd.Context(), mada.GroupFilesByBoard(files))
			if err != nil {
				return err
			}
			if err := printGainReport(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			if !configuration.NoDB {
				if err := storeGains(configuration, results, opts.logger); err != nil {
					return err
				}
			}

			failed := 0
			for _, result := range results {
				if result.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d boards could not be fully aggregated", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gain.madaConfig, MadaConfigOptionName, "MADA_config.json", "Board topology file")
	cmd.Flags().StringVar(&gain.dir, DirOptionName, ".", "Directory holding the MADA files")
	cmd.Flags().IntVar(&gain.from, FromOptionName, 0, "First period")
	cmd.Flags().IntVar(&gain.to, ToOptionName, 0, "Last period")
	cmd.Flags().BoolVar(&gain.store, StoreOptionName, false, "Store the results in the database")
	cmd.Flags().StringVar(&gain.cachePath, CacheOptionName, "", "Amplitude cache file, overrides the configuration file")
	return cmd
}

func formatChannels(values [mada.NChannels]float64) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = fmt.Sprintf("%.2f", v)
	}
	return row
}

func printGainReport(out io.Writer, results []mada.BoardAmplitudeAverage) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "board\tstatistic\tevents\tch0\tch1\tch2\tch3")
	for _, result := range results {
		if result.PeakToPeakEvents > 0 {
			fmt.Fprintf(tw, "%s\tpeak-to-peak\t%d\t%s\t%s\t%s\t%s\n",
				append([]any{result.Board, result.PeakToPeakEvents}, formatChannels(result.PeakToPeak)...)...)
		}
		if result.AmplitudeEvents > 0 {
			fmt.Fprintf(tw, "%s\tmin amplitude\t%d\t%s\t%s\t%s\t%s\n",
				append([]any{result.Board, result.AmplitudeEvents}, formatChannels(result.Min.Value)...)...)
			fmt.Fprintf(tw, "%s\tmax amplitude\t%d\t%s\t%s\t%s\t%s\n",
				append([]any{result.Board, result.AmplitudeEvents}, formatChannels(result.Max.Value)...)...)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	red := color.New(color.FgRed)
	for _, result := range results {
		if result.Err == nil {
			continue
		}
		if errors.Is(result.Err, mada.ErrEmptyAggregationSet) {
			red.Fprintf(out, "%s: no qualifying events (%d files, %d events)\n", result.Board, result.Files, result.Events)
		}
		red.Fprintf(out, "%s: %v\n", result.Board, result.Err)
	}
	return nil
}

func storeGains(configuration mada.Configuration, results []mada.BoardAmplitudeAverage, logger mada.Logger) error {
	db, err := mada.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	entries := mada.GainEntries(configuration.Run, results)
	if err := mada.SaveGainEntries(db, entries, configuration); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Stored %d gain entries for run %q", len(entries), configuration.Run), "gain")
	return nil
}
