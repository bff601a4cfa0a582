package mada

import (
	"errors"
	"fmt"
	"os"
)

// Outcome classifies the decoding of one frame.
type Outcome int

const (
	Decoded Outcome = iota
	// Skipped frames are dropped and decoding continues with the next frame.
	Skipped
	// Fatal aborts the decoding of the whole file.
	Fatal
)

var outcomeStrings = []string{"decoded", "skipped", "fatal"}

func (o Outcome) String() string {
	if o < Decoded || o > Fatal {
		return "unknown"
	}
	return outcomeStrings[o]
}

type FrameResult struct {
	Index   int
	Outcome Outcome
	Event   Event
	Err     error
}

// DecodeFrame decodes the header and then the waveform of one frame.
func DecodeFrame(index int, frame []byte, clockDepth int) FrameResult {
	header, rest, err := ReadHeader(frame)
	if err != nil {
		return FrameResult{Index: index, Outcome: Skipped, Err: &FrameError{Index: index, Err: err}}
	}

	fadc, _, err := ReadFlushADC(rest, clockDepth)
	if err != nil {
		outcome := Skipped
		if errors.Is(err, ErrInvalidClockDepth) {
			outcome = Fatal
		}
		return FrameResult{Index: index, Outcome: outcome, Err: &FrameError{Index: index, Err: err}}
	}

	return FrameResult{
		Index:   index,
		Outcome: Decoded,
		Event: Event{
			Index:  index,
			Header: header,
			FADC:   fadc,
		},
	}
}

// DecodeEvents splits data into frames and decodes them. Frames that fail are
// returned as the second value and left out of the events; the error is only set
// for fatal outcomes.
func DecodeEvents(data []byte, configuration Configuration) ([]Event, []FrameResult, error) {
	if configuration.ClockDepth <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidClockDepth, configuration.ClockDepth)
	}

	frames := SplitFrames(data)
	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Number of frames: %d", len(frames))
		logger.Info(message, "assembler")
	}

	results := decodeFrames(frames, configuration)

	events := make([]Event, 0, len(results))
	var skipped []FrameResult
	for _, result := range results {
		switch result.Outcome {
		case Decoded:
			if result.Event.FADC.Truncated && configuration.Verbosity > 1 {
				message := fmt.Sprintf("frame %d: waveform truncated after %d samples",
					result.Index, result.Event.FADC.Samples())
				logger.Info(message, "assembler")
			}
			events = append(events, result.Event)
		case Skipped:
			message := fmt.Sprintf("discarding frame: %v", result.Err)
			logger.Error(message)
			skipped = append(skipped, result)
		default:
			return nil, skipped, result.Err
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Decoded %d events, skipped %d frames", len(events), len(skipped))
		logger.Info(message, "assembler")
	}
	return events, skipped, nil
}

// ReadMadaFile reads a whole file into memory and decodes it.
func ReadMadaFile(filename string, configuration Configuration) ([]Event, []FrameResult, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	return DecodeEvents(data, configuration)
}

// CheckTriggerOrder returns the positions in events whose trigger counter does not
// increase with respect to the previous event.
func CheckTriggerOrder(events []Event) []int {
	var positions []int
	for i := 1; i < len(events); i++ {
		if events[i].Header.TriggerCounter <= events[i-1].Header.TriggerCounter {
			positions = append(positions, i)
		}
	}
	return positions
}
