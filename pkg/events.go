package mada

import "fmt"

const (
	// Marker separates events in a MADA file. It is not part of the event body.
	Marker            = "uPIC"
	NChannels         = 4
	DefaultClockDepth = 1024
)

type EventHeader struct {
	TriggerCounter  uint32
	ClockCounter    uint32
	InputCh2Counter uint32
}

// Col formats the header as one tab separated row: trigger, clock, input2.
func (h EventHeader) Col() string {
	return fmt.Sprintf("%d\t%d\t%d", h.TriggerCounter, h.ClockCounter, h.InputCh2Counter)
}

// FlushADC holds the flash ADC samples of the four analog sum channels in clock order.
// Truncated is set when decoding stopped on an unknown channel id; channels may then
// be shorter than the clock depth and of unequal length.
type FlushADC struct {
	Channels  [NChannels][]uint16
	Truncated bool
}

// Samples returns the number of samples over all channels.
func (f FlushADC) Samples() int {
	n := 0
	for _, ch := range f.Channels {
		n += len(ch)
	}
	return n
}

type Event struct {
	// Index is the position of the source frame in the file.
	Index  int
	Header EventHeader
	FADC   FlushADC
}
