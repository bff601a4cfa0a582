package mada

import "fmt"

// Every sample of the waveform region is a 16 bit group:
// channel id (4 bits), unused (2 bits), ADC value (10 bits).
const (
	channelIDBits  = 4
	paddingBits    = 2
	sampleBits     = 10
	firstChannelID = 4
	MaxSample      = 1<<sampleBits - 1
)

// WaveformSize is the number of bytes taken by the waveform region of one event.
func WaveformSize(clockDepth int) int {
	return 2 * NChannels * clockDepth
}

func channelIndex(channelID uint32) (int, bool) {
	if channelID < firstChannelID || channelID >= firstChannelID+NChannels {
		return 0, false
	}
	return int(channelID - firstChannelID), true
}

// ReadFlushADC decodes the waveform region at the front of data. An out of range
// channel id stops decoding: the samples read so far are returned with Truncated set
// and no error. The remainder after the full region is returned in both cases.
func ReadFlushADC(data []byte, clockDepth int) (FlushADC, []byte, error) {
	var fadc FlushADC
	if clockDepth <= 0 {
		return fadc, nil, fmt.Errorf("%w: %d", ErrInvalidClockDepth, clockDepth)
	}
	size := WaveformSize(clockDepth)
	if len(data) < size {
		return fadc, nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientWaveformBytes, size, len(data))
	}

	for ch := range fadc.Channels {
		fadc.Channels[ch] = make([]uint16, 0, clockDepth)
	}

	reader := newBitReader(data[:size])
	for group := 0; group < NChannels*clockDepth; group++ {
		channelID, err := reader.readBits(channelIDBits)
		if err != nil {
			return FlushADC{}, nil, err
		}
		if _, err := reader.readBits(paddingBits); err != nil {
			return FlushADC{}, nil, err
		}
		sample, err := reader.readBits(sampleBits)
		if err != nil {
			return FlushADC{}, nil, err
		}

		ch, ok := channelIndex(channelID)
		if !ok {
			fadc.Truncated = true
			break
		}
		fadc.Channels[ch] = append(fadc.Channels[ch], uint16(sample))
	}
	return fadc, data[size:], nil
}

// writeFlushADC encodes fadc into dst, which must hold WaveformSize(clockDepth) zeroed
// bytes. Groups are written tick by tick in channel order.
func writeFlushADC(dst []byte, fadc FlushADC, clockDepth int) error {
	for ch, samples := range fadc.Channels {
		if len(samples) != clockDepth {
			return fmt.Errorf("channel %d has %d samples, expected %d", ch, len(samples), clockDepth)
		}
	}
	writer := newBitWriter(dst)
	for clock := 0; clock < clockDepth; clock++ {
		for ch := 0; ch < NChannels; ch++ {
			sample := fadc.Channels[ch][clock]
			if sample > MaxSample {
				return fmt.Errorf("channel %d clock %d: sample %d exceeds %d bits", ch, clock, sample, sampleBits)
			}
			if err := writer.writeBits(uint32(firstChannelID+ch), channelIDBits); err != nil {
				return err
			}
			if err := writer.writeBits(0, paddingBits); err != nil {
				return err
			}
			if err := writer.writeBits(uint32(sample), sampleBits); err != nil {
				return err
			}
		}
	}
	return nil
}
