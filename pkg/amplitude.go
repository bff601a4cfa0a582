package mada

import "fmt"

type AmplitudeKind int

const (
	AmplitudeMin AmplitudeKind = iota
	AmplitudeMax
)

func (k AmplitudeKind) String() string {
	switch k {
	case AmplitudeMin:
		return "min"
	case AmplitudeMax:
		return "max"
	default:
		return "unknown"
	}
}

// Amplitude is a per channel minimum or maximum of one event, or an average of those.
type Amplitude struct {
	Kind              AmplitudeKind      `json:"kind"`
	Value             [NChannels]float64 `json:"value"`
	BaselineCorrected bool               `json:"baseline_corrected"`
}

// AmplitudeWindow selects the events and the baseline region used for amplitudes.
// The baseline is the mean of the samples in [BaselineStart, BaselineEnd).
type AmplitudeWindow struct {
	ExpectedSamples int
	BaselineStart   int
	BaselineEnd     int
}

func DefaultAmplitudeWindow() AmplitudeWindow {
	return AmplitudeWindow{
		ExpectedSamples: DefaultClockDepth,
		BaselineStart:   600,
		BaselineEnd:     1000,
	}
}

func (w AmplitudeWindow) Validate() error {
	if w.BaselineStart < 0 || w.BaselineStart >= w.BaselineEnd || w.BaselineEnd > w.ExpectedSamples {
		return fmt.Errorf("%w: [%d, %d) with %d samples", ErrInvalidBaselineWindow,
			w.BaselineStart, w.BaselineEnd, w.ExpectedSamples)
	}
	return nil
}

func minMax(samples []uint16) (uint16, uint16) {
	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi
}

func mean(samples []uint16) float64 {
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}

// PeakToPeak returns max-min of every channel. It is unavailable (false) when any
// channel has no samples.
func PeakToPeak(fadc FlushADC) ([NChannels]float64, bool) {
	var p2p [NChannels]float64
	for ch, samples := range fadc.Channels {
		if len(samples) == 0 {
			return p2p, false
		}
		lo, hi := minMax(samples)
		p2p[ch] = float64(hi) - float64(lo)
	}
	return p2p, true
}

// Amplitudes returns the baseline corrected minimum and maximum of every channel.
// Every channel must hold exactly window.ExpectedSamples samples, otherwise the
// event is unavailable (false).
func Amplitudes(fadc FlushADC, window AmplitudeWindow) (Amplitude, Amplitude, bool) {
	ampMin := Amplitude{Kind: AmplitudeMin, BaselineCorrected: true}
	ampMax := Amplitude{Kind: AmplitudeMax, BaselineCorrected: true}
	if window.Validate() != nil {
		return ampMin, ampMax, false
	}
	for _, samples := range fadc.Channels {
		if len(samples) != window.ExpectedSamples {
			return ampMin, ampMax, false
		}
	}

	for ch, samples := range fadc.Channels {
		baseline := mean(samples[window.BaselineStart:window.BaselineEnd])
		lo, hi := minMax(samples)
		ampMin.Value[ch] = float64(lo) - baseline
		ampMax.Value[ch] = float64(hi) - baseline
	}
	return ampMin, ampMax, true
}

// FileAmplitudes holds the per event statistics of one file. Events that are
// unavailable for a statistic are absent from its slice.
type FileAmplitudes struct {
	PeakToPeak [][NChannels]float64 `json:"peak_to_peak"`
	Min        []Amplitude          `json:"min"`
	Max        []Amplitude          `json:"max"`
	Events     int                  `json:"events"`
	Skipped    int                  `json:"skipped"`
}

func AnalyzeEvents(events []Event, window AmplitudeWindow) FileAmplitudes {
	result := FileAmplitudes{Events: len(events)}
	for _, event := range events {
		if p2p, ok := PeakToPeak(event.FADC); ok {
			result.PeakToPeak = append(result.PeakToPeak, p2p)
		}
		if ampMin, ampMax, ok := Amplitudes(event.FADC, window); ok {
			result.Min = append(result.Min, ampMin)
			result.Max = append(result.Max, ampMax)
		}
	}
	return result
}
