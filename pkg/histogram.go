package mada

// Histogram counts values in equal width bins starting at Min.
type Histogram struct {
	Min    uint32
	Width  uint32
	Counts []int
}

// Edge returns the lower edge of bin i.
func (h Histogram) Edge(i int) uint32 {
	return h.Min + uint32(i)*h.Width
}

// ClockHistogram bins the clock counters of events between their minimum and maximum.
// Bins are one count wide unless that needs more than maxBins bins.
func ClockHistogram(events []Event, maxBins int) Histogram {
	if len(events) == 0 {
		return Histogram{Width: 1}
	}
	if maxBins < 1 {
		maxBins = 1
	}

	lo, hi := events[0].Header.ClockCounter, events[0].Header.ClockCounter
	for _, event := range events[1:] {
		c := event.Header.ClockCounter
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}

	span := uint64(hi-lo) + 1
	width := (span + uint64(maxBins) - 1) / uint64(maxBins)
	nBins := (span + width - 1) / width

	h := Histogram{Min: lo, Width: uint32(width), Counts: make([]int, nBins)}
	for _, event := range events {
		h.Counts[uint64(event.Header.ClockCounter-lo)/width]++
	}
	return h
}
