// Package writer stores decoded MADA events in HDF5 files.
package writer

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	mada "github.com/upic-daq/mada_reader/pkg"
)

// Layout:
//
//	/Run/runInfo        run tag, board, clock depth
//	/Run/events         one row of counters per event
//	/Run/clockHistogram clock counter histogram
//	/RD/fadc            [event][channel][clock] int16, zero padded past nsamples
//	/RD/nsamples        [event][channel] number of decoded samples
type Writer struct {
	File                *hdf5.File
	Filename            string
	RunGroup            *hdf5.Group
	RDGroup             *hdf5.Group
	RunInfoTable        *hdf5.Dataset
	EventTable          *hdf5.Dataset
	ClockHistogramTable *hdf5.Dataset
	FADCWaveforms       *hdf5.Dataset
	NSamples            *hdf5.Dataset
	ClockDepth          int
	EvtCounter          int
}

// RunInfo describes the source of the events written to a file.
type RunInfo struct {
	RunTag string
	Board  string
}

func NewWriter(filename string, clockDepth int, compressionLevel int) (*Writer, error) {
	if clockDepth <= 0 {
		return nil, fmt.Errorf("%w: %d", mada.ErrInvalidClockDepth, clockDepth)
	}

	w := &Writer{Filename: filename, ClockDepth: clockDepth}
	var err error
	if w.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if w.RunGroup, err = createGroup(w.File, "Run"); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.RDGroup, err = createGroup(w.File, "RD"); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.RunInfoTable, err = createTable(w.RunGroup, "runInfo", RunInfoHDF5{}, compressionLevel); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.EventTable, err = createTable(w.RunGroup, "events", EventDataHDF5{}, compressionLevel); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.ClockHistogramTable, err = createTable(w.RunGroup, "clockHistogram", ClockHistogramHDF5{}, compressionLevel); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.FADCWaveforms, err = create3dArray(w.RDGroup, "fadc", mada.NChannels, clockDepth, compressionLevel); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.NSamples, err = create2dArray(w.RDGroup, "nsamples", mada.NChannels, compressionLevel); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return w, nil
}

func (w *Writer) WriteRunInfo(info RunInfo) error {
	entry := RunInfoHDF5{
		run_tag:     convertToHdf5String(info.RunTag),
		board:       convertToHdf5String(info.Board),
		clock_depth: int32(w.ClockDepth),
	}
	if err := writeEntryToTable(w.RunInfoTable, entry, 0); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	return nil
}

func (w *Writer) WriteEvent(event *mada.Event) error {
	var truncated int8
	if event.FADC.Truncated {
		truncated = 1
	}
	entry := EventDataHDF5{
		evt_number:      int32(event.Index),
		trigger_counter: event.Header.TriggerCounter,
		clock_counter:   event.Header.ClockCounter,
		input2_counter:  event.Header.InputCh2Counter,
		truncated:       truncated,
	}
	if err := writeEntryToTable(w.EventTable, entry, w.EvtCounter); err != nil {
		return fmt.Errorf("error writing event %d: %w", event.Index, err)
	}

	waveforms := make([]int16, mada.NChannels*w.ClockDepth)
	nsamples := make([]int16, mada.NChannels)
	for ch, samples := range event.FADC.Channels {
		// A channel can only be longer than the clock depth if the writer and the
		// decoder disagree on it. Extra samples are dropped.
		n := min(len(samples), w.ClockDepth)
		for i, sample := range samples[:n] {
			waveforms[ch*w.ClockDepth+i] = int16(sample)
		}
		nsamples[ch] = int16(n)
	}
	if err := writeArrayRow(w.FADCWaveforms, &waveforms, w.EvtCounter, []uint{mada.NChannels, uint(w.ClockDepth)}); err != nil {
		return fmt.Errorf("error writing waveforms of event %d: %w", event.Index, err)
	}
	if err := writeArrayRow(w.NSamples, &nsamples, w.EvtCounter, []uint{mada.NChannels}); err != nil {
		return fmt.Errorf("error writing sample counts of event %d: %w", event.Index, err)
	}

	w.EvtCounter++
	return nil
}

func (w *Writer) WriteClockHistogram(histogram mada.Histogram) error {
	if len(histogram.Counts) == 0 {
		return nil
	}
	rows := make([]ClockHistogramHDF5, len(histogram.Counts))
	for i, count := range histogram.Counts {
		rows[i] = ClockHistogramHDF5{
			clock_edge: histogram.Edge(i),
			count:      int32(count),
		}
	}
	if err := writeArrayToTable(w.ClockHistogramTable, &rows, 0); err != nil {
		return fmt.Errorf("error writing clock histogram: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	closeDataset := func(dset *hdf5.Dataset, name string) {
		if dset == nil {
			return
		}
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", name, err))
		}
	}
	closeDataset(w.RunInfoTable, "run info table")
	closeDataset(w.EventTable, "event table")
	closeDataset(w.ClockHistogramTable, "clock histogram table")
	closeDataset(w.FADCWaveforms, "FADC waveforms")
	closeDataset(w.NSamples, "sample counts")

	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.RDGroup != nil {
		if err := w.RDGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing RD group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// WriteFile writes all events of one MADA file, followed by their clock histogram.
func WriteFile(filename string, info RunInfo, events []mada.Event, configuration mada.Configuration) (err error) {
	w, err := NewWriter(filename, configuration.ClockDepth, configuration.CompressionLevel)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	if err := w.WriteRunInfo(info); err != nil {
		return err
	}
	for i := range events {
		if err := w.WriteEvent(&events[i]); err != nil {
			return err
		}
	}
	return w.WriteClockHistogram(mada.ClockHistogram(events, configuration.HistogramBins))
}
