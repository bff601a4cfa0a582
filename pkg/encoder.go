package mada

import (
	"bytes"
	"fmt"

	"github.com/google/gopacket"
)

// EventSize is the number of bytes an encoded event takes, marker included.
func EventSize(clockDepth int) int {
	return len(Marker) + HeaderSize + WaveformSize(clockDepth)
}

// SerializeEvent appends the marker, header and waveform of event to b. Every channel
// must hold exactly clockDepth samples. Events whose body would contain the marker
// are rejected, since they could not be split back.
func SerializeEvent(b gopacket.SerializeBuffer, event Event, clockDepth int) error {
	if clockDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidClockDepth, clockDepth)
	}
	eventBytes, err := b.AppendBytes(EventSize(clockDepth))
	if err != nil {
		return err
	}
	for i := range eventBytes {
		eventBytes[i] = 0
	}

	copy(eventBytes, Marker)
	body := eventBytes[len(Marker):]
	putHeader(body[:HeaderSize], event.Header)
	if err := writeFlushADC(body[HeaderSize:], event.FADC, clockDepth); err != nil {
		return fmt.Errorf("event %d: %w", event.Index, err)
	}
	if bytes.Contains(body, []byte(Marker)) {
		return fmt.Errorf("event %d: %w", event.Index, ErrMarkerInEvent)
	}
	return nil
}

// EncodeEvents builds the contents of a MADA file holding events in order.
func EncodeEvents(events []Event, clockDepth int) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	for _, event := range events {
		if err := SerializeEvent(buf, event, clockDepth); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
