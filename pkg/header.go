package mada

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the fixed part at the front of every frame: 4 padding bytes
	// followed by three big-endian counters.
	HeaderSize        = 16
	headerPaddingSize = 4
)

// ReadHeader decodes the counters of a frame and returns the bytes that follow the
// header without copying them. The padding bytes are not validated.
func ReadHeader(frame []byte) (EventHeader, []byte, error) {
	var header EventHeader
	if len(frame) < HeaderSize {
		return header, nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedHeader, HeaderSize, len(frame))
	}

	counters := frame[headerPaddingSize:HeaderSize]
	header.TriggerCounter = binary.BigEndian.Uint32(counters[0:4])
	header.ClockCounter = binary.BigEndian.Uint32(counters[4:8])
	header.InputCh2Counter = binary.BigEndian.Uint32(counters[8:12])
	return header, frame[HeaderSize:], nil
}

func putHeader(buf []byte, header EventHeader) {
	for i := 0; i < headerPaddingSize; i++ {
		buf[i] = 0
	}
	counters := buf[headerPaddingSize:HeaderSize]
	binary.BigEndian.PutUint32(counters[0:4], header.TriggerCounter)
	binary.BigEndian.PutUint32(counters[4:8], header.ClockCounter)
	binary.BigEndian.PutUint32(counters[8:12], header.InputCh2Counter)
}
