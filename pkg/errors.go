package mada

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedHeader           = errors.New("truncated event header")
	ErrInsufficientWaveformBytes = errors.New("insufficient waveform bytes")
	ErrEmptyAggregationSet       = errors.New("empty aggregation set")
	ErrInvalidClockDepth         = errors.New("invalid clock depth")
	ErrInvalidBaselineWindow     = errors.New("invalid baseline window")
	ErrMixedAmplitudeKinds       = errors.New("mixed amplitude kinds")
	ErrMarkerInEvent             = errors.New("encoded event contains the frame marker")
)

// FrameError is a recoverable decode failure of a single frame.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// BoardError reports a statistic that could not be computed for a board.
type BoardError struct {
	Board     string
	Statistic Statistic
	Err       error
}

func (e *BoardError) Error() string {
	return fmt.Sprintf("board %s, %s: %v", e.Board, e.Statistic, e.Err)
}

func (e *BoardError) Unwrap() error {
	return e.Err
}

// ErrOpenFile represents an error when reading an input file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrFileNotFound is returned by the file scan when an expected run file is missing.
type ErrFileNotFound struct {
	Path string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file %q does not exist", e.Path)
}

// ErrInvalidTopology represents a malformed board entry in the MADA configuration.
type ErrInvalidTopology struct {
	Board string
	Err   error
}

func (e *ErrInvalidTopology) Error() string {
	return fmt.Sprintf("invalid board %q: %v", e.Board, e.Err)
}

func (e *ErrInvalidTopology) Unwrap() error {
	return e.Err
}
