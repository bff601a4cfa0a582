package mada

import "encoding/binary"

// constantChannels returns four channels of n copies of value.
func constantChannels(n int, value uint16) [NChannels][]uint16 {
	var channels [NChannels][]uint16
	for ch := range channels {
		channels[ch] = make([]uint16, n)
		for i := range channels[ch] {
			channels[ch][i] = value
		}
	}
	return channels
}

// rampEvent builds an event whose samples are distinct per channel and clock.
func rampEvent(index int, trigger uint32, clockDepth int) Event {
	var fadc FlushADC
	for ch := range fadc.Channels {
		fadc.Channels[ch] = make([]uint16, clockDepth)
		for t := range fadc.Channels[ch] {
			fadc.Channels[ch][t] = uint16((ch*251 + t*7) % (MaxSample + 1))
		}
	}
	return Event{
		Index:  index,
		Header: EventHeader{TriggerCounter: trigger, ClockCounter: 1000 * trigger, InputCh2Counter: trigger / 2},
		FADC:   fadc,
	}
}

// groups packs raw 16 bit groups, id in the upper 4 bits, big endian.
func groups(values ...[2]uint16) []byte {
	out := make([]byte, 0, 2*len(values))
	for _, v := range values {
		out = binary.BigEndian.AppendUint16(out, v[0]<<12|v[1])
	}
	return out
}

type captureLogger struct {
	infos  []string
	errors []string
}

func (l *captureLogger) Info(message string, module string) {
	l.infos = append(l.infos, module+": "+message)
}

func (l *captureLogger) Error(message string) {
	l.errors = append(l.errors, message)
}
