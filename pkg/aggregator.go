package mada

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"os"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Statistic names an aggregated quantity.
type Statistic int

const (
	StatPeakToPeak Statistic = iota
	StatMinAmplitude
	StatMaxAmplitude
)

var statisticStrings = []string{"peak-to-peak", "min amplitude", "max amplitude"}

func (s Statistic) String() string {
	if s < StatPeakToPeak || s > StatMaxAmplitude {
		return "unknown"
	}
	return statisticStrings[s]
}

// AveragePeakToPeak flattens the per file vectors and averages them per channel.
// It also returns the number of vectors averaged.
func AveragePeakToPeak(perFile [][][NChannels]float64) ([NChannels]float64, int, error) {
	var sum [NChannels]float64
	n := 0
	for _, vectors := range perFile {
		for _, v := range vectors {
			for ch := range sum {
				sum[ch] += v[ch]
			}
			n++
		}
	}
	if n == 0 {
		return sum, 0, ErrEmptyAggregationSet
	}
	for ch := range sum {
		sum[ch] /= float64(n)
	}
	return sum, n, nil
}

// AverageAmplitudes flattens the per file amplitudes and averages them per channel.
// All amplitudes must share the same kind.
func AverageAmplitudes(perFile [][]Amplitude) (Amplitude, error) {
	var result Amplitude
	n := 0
	for _, amplitudes := range perFile {
		for _, amp := range amplitudes {
			if n == 0 {
				result.Kind = amp.Kind
				result.BaselineCorrected = amp.BaselineCorrected
			} else if amp.Kind != result.Kind {
				return Amplitude{}, fmt.Errorf("%w: %s and %s", ErrMixedAmplitudeKinds, result.Kind, amp.Kind)
			}
			for ch := range result.Value {
				result.Value[ch] += amp.Value[ch]
			}
			n++
		}
	}
	if n == 0 {
		return Amplitude{}, ErrEmptyAggregationSet
	}
	for ch := range result.Value {
		result.Value[ch] /= float64(n)
	}
	return result, nil
}

// FileSource supplies the raw bytes of a file.
type FileSource interface {
	ReadFile(path string) ([]byte, error)
}

type OSFileSource struct{}

func (OSFileSource) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AmplitudeCache stores the analysis of files that were already decoded.
type AmplitudeCache interface {
	Get(key string) (FileAmplitudes, bool, error)
	Put(key string, amplitudes FileAmplitudes) error
}

// BoardFiles assigns a list of files to a board.
type BoardFiles struct {
	Board string
	Files []string
}

// BoardFilesFromMap converts a board -> files mapping into a slice sorted by board.
func BoardFilesFromMap(m map[string][]string) []BoardFiles {
	boards := make([]BoardFiles, 0, len(m))
	for board, files := range m {
		boards = append(boards, BoardFiles{Board: board, Files: files})
	}
	slices.SortFunc(boards, func(a, b BoardFiles) int {
		switch {
		case a.Board < b.Board:
			return -1
		case a.Board > b.Board:
			return 1
		}
		return 0
	})
	return boards
}

// BoardAmplitudeAverage is the aggregation result of one board. Err is set when at
// least one statistic could not be computed; the others are still filled.
type BoardAmplitudeAverage struct {
	Board            string
	Files            int
	Events           int
	PeakToPeak       [NChannels]float64
	PeakToPeakEvents int
	Min              Amplitude
	Max              Amplitude
	AmplitudeEvents  int
	Err              error
}

type Aggregator struct {
	configuration Configuration
	source        FileSource
	cache         AmplitudeCache
}

// NewAggregator returns an aggregator reading files from source. cache may be nil.
func NewAggregator(configuration Configuration, source FileSource, cache AmplitudeCache) *Aggregator {
	if source == nil {
		source = OSFileSource{}
	}
	return &Aggregator{
		configuration: configuration,
		source:        source,
		cache:         cache,
	}
}

type fileSlot struct {
	board int
	path  string
	amps  FileAmplitudes
	err   error
}

// Run analyses every file of every board, in parallel up to NumWorkers files, and
// reduces the results per board in file order. The returned error is only set when
// ctx is cancelled; per board failures are reported in BoardAmplitudeAverage.Err.
func (a *Aggregator) Run(ctx context.Context, boards []BoardFiles) ([]BoardAmplitudeAverage, error) {
	var slots []*fileSlot
	for b, board := range boards {
		for _, path := range board.Files {
			slots = append(slots, &fileSlot{board: b, path: path})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.configuration.NumWorkers, 1))
	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slot.amps, slot.err = a.analyzeFile(slot.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]BoardAmplitudeAverage, len(boards))
	perBoard := make([][]*fileSlot, len(boards))
	for _, slot := range slots {
		perBoard[slot.board] = append(perBoard[slot.board], slot)
	}
	for b, board := range boards {
		results[b] = a.reduce(board.Board, perBoard[b])
	}
	return results, nil
}

func (a *Aggregator) reduce(board string, slots []*fileSlot) BoardAmplitudeAverage {
	result := BoardAmplitudeAverage{Board: board, Files: len(slots)}
	var errs []error
	var p2p [][][NChannels]float64
	var mins, maxs [][]Amplitude
	for _, slot := range slots {
		if slot.err != nil {
			errs = append(errs, slot.err)
			continue
		}
		result.Events += slot.amps.Events
		// empty files are filtered before concatenation
		if len(slot.amps.PeakToPeak) > 0 {
			p2p = append(p2p, slot.amps.PeakToPeak)
		}
		if len(slot.amps.Min) > 0 {
			mins = append(mins, slot.amps.Min)
			maxs = append(maxs, slot.amps.Max)
		}
	}

	var err error
	result.PeakToPeak, result.PeakToPeakEvents, err = AveragePeakToPeak(p2p)
	if err != nil {
		errs = append(errs, &BoardError{Board: board, Statistic: StatPeakToPeak, Err: err})
	}
	result.Min, err = AverageAmplitudes(mins)
	if err != nil {
		errs = append(errs, &BoardError{Board: board, Statistic: StatMinAmplitude, Err: err})
	}
	result.Max, err = AverageAmplitudes(maxs)
	if err != nil {
		errs = append(errs, &BoardError{Board: board, Statistic: StatMaxAmplitude, Err: err})
	}
	for _, amplitudes := range mins {
		result.AmplitudeEvents += len(amplitudes)
	}

	result.Err = errors.Join(errs...)
	if result.Err != nil {
		logger.Error(fmt.Sprintf("aggregation of board %s: %v", board, result.Err))
	}
	return result
}

func (a *Aggregator) analyzeFile(path string) (FileAmplitudes, error) {
	data, err := a.source.ReadFile(path)
	if err != nil {
		return FileAmplitudes{}, &ErrOpenFile{Filename: path, Err: err}
	}

	key := a.cacheKey(path, data)
	if a.cache != nil {
		amps, ok, err := a.cache.Get(key)
		if err != nil {
			logger.Error(fmt.Sprintf("error reading cache for %s: %v", path, err))
		} else if ok {
			if a.configuration.Verbosity > 0 {
				logger.Info(fmt.Sprintf("Using cached amplitudes for %s", path), "aggregator")
			}
			return amps, nil
		}
	}

	events, skipped, err := DecodeEvents(data, a.configuration)
	if err != nil {
		return FileAmplitudes{}, fmt.Errorf("error decoding %s: %w", path, err)
	}
	amps := AnalyzeEvents(events, a.configuration.AmplitudeWindow())
	amps.Skipped = len(skipped)
	if a.configuration.Verbosity > 0 {
		message := fmt.Sprintf("%s: %d events, %d peak-to-peak, %d amplitudes, %d skipped frames",
			path, amps.Events, len(amps.PeakToPeak), len(amps.Min), amps.Skipped)
		logger.Info(message, "aggregator")
	}

	if a.cache != nil {
		if err := a.cache.Put(key, amps); err != nil {
			logger.Error(fmt.Sprintf("error writing cache for %s: %v", path, err))
		}
	}
	return amps, nil
}

// cacheKey identifies a file content together with the settings that change its analysis.
func (a *Aggregator) cacheKey(path string, data []byte) string {
	window := a.configuration.AmplitudeWindow()
	return fmt.Sprintf("%s|%d|%08x|%d|%d|%d|%d", path, len(data), crc32.ChecksumIEEE(data),
		a.configuration.ClockDepth, window.ExpectedSamples, window.BaselineStart, window.BaselineEnd)
}
