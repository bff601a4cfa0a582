package mada

import (
	"bytes"
	"math"
	"math/rand"
)

// Pulse shape of the synthetic events, in clock ticks and ADC counts.
const (
	syntheticBaseline   = 512
	syntheticNoise      = 3
	syntheticPulseStart = 200
	syntheticRiseTime   = 20
	syntheticDecayTime  = 120
)

// GenerateEvents returns n events shaped like real uPIC waveforms: a flat baseline with
// noise and one negative pulse per channel. The same seed gives the same events.
func GenerateEvents(n, clockDepth int, seed int64) []Event {
	rng := rand.New(rand.NewSource(seed))
	events := make([]Event, 0, n)

	trigger := uint32(1)
	clock := uint32(0)
	for i := 0; i < n; i++ {
		clock += uint32(1000 + rng.Intn(5000))
		header := EventHeader{
			TriggerCounter:  trigger,
			ClockCounter:    clock,
			InputCh2Counter: uint32(i / 2),
		}
		// Counters spelling the marker would break the frame split.
		for headerContainsMarker(header) {
			header.ClockCounter++
			clock = header.ClockCounter
		}

		var fadc FlushADC
		for ch := range fadc.Channels {
			height := 50 + rng.Float64()*300
			fadc.Channels[ch] = syntheticWaveform(rng, clockDepth, height)
		}
		events = append(events, Event{Index: i, Header: header, FADC: fadc})
		trigger++
	}
	return events
}

func syntheticWaveform(rng *rand.Rand, clockDepth int, height float64) []uint16 {
	samples := make([]uint16, clockDepth)
	for t := range samples {
		v := syntheticBaseline + rng.NormFloat64()*syntheticNoise
		if t >= syntheticPulseStart {
			dt := float64(t - syntheticPulseStart)
			v -= height * (1 - math.Exp(-dt/syntheticRiseTime)) * math.Exp(-dt/syntheticDecayTime)
		}
		v = math.Round(v)
		v = math.Max(0, math.Min(MaxSample, v))
		samples[t] = uint16(v)
	}
	return samples
}

func headerContainsMarker(header EventHeader) bool {
	buf := make([]byte, HeaderSize)
	putHeader(buf, header)
	if bytes.Contains(buf, []byte(Marker)) {
		return true
	}
	// The first waveform byte can complete a marker started by the last three header bytes.
	return bytes.HasSuffix(buf, []byte(Marker[:3]))
}
