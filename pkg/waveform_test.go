package mada

import (
	"errors"
	"reflect"
	"testing"
)

func TestReadFlushADC(t *testing.T) {
	data := groups(
		[2]uint16{4, 10}, [2]uint16{5, 20}, [2]uint16{6, 30}, [2]uint16{7, 1023}, // clock 0
		[2]uint16{4, 11}, [2]uint16{5, 21}, [2]uint16{6, 31}, [2]uint16{7, 0}, // clock 1
	)
	data = append(data, 0xca, 0xfe) // trailing bytes

	fadc, rest, err := ReadFlushADC(data, 2)
	if err != nil {
		t.Fatalf("ReadFlushADC: %v", err)
	}
	want := [NChannels][]uint16{{10, 11}, {20, 21}, {30, 31}, {1023, 0}}
	if !reflect.DeepEqual(fadc.Channels, want) {
		t.Errorf("channels = %v, want %v", fadc.Channels, want)
	}
	if fadc.Truncated {
		t.Error("Truncated set on a complete waveform")
	}
	if len(rest) != 2 || rest[0] != 0xca {
		t.Errorf("rest = %x, want cafe", rest)
	}
}

func TestReadFlushADCIgnoresPaddingBits(t *testing.T) {
	// id 4, pad 0b11, sample 0x155
	data := []byte{0x4d, 0x55, 0x5c, 0x01, 0x6c, 0x02, 0x7c, 0x03}
	fadc, _, err := ReadFlushADC(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := [NChannels][]uint16{{0x155}, {1}, {2}, {3}}
	if !reflect.DeepEqual(fadc.Channels, want) {
		t.Errorf("channels = %v, want %v", fadc.Channels, want)
	}
}

func TestReadFlushADCTruncation(t *testing.T) {
	const clockDepth = 4
	for k := 0; k < NChannels*clockDepth; k++ {
		values := make([][2]uint16, NChannels*clockDepth)
		for i := range values {
			values[i] = [2]uint16{uint16(4 + i%NChannels), uint16(i)}
		}
		values[k][0] = 9

		fadc, _, err := ReadFlushADC(groups(values...), clockDepth)
		if err != nil {
			t.Fatalf("k=%d: unexpected error %v", k, err)
		}
		if !fadc.Truncated {
			t.Errorf("k=%d: Truncated not set", k)
		}
		if got := fadc.Samples(); got != k {
			t.Errorf("k=%d: %d samples decoded, want %d", k, got, k)
		}
	}
}

func TestReadFlushADCInsufficientBytes(t *testing.T) {
	_, _, err := ReadFlushADC(make([]byte, WaveformSize(DefaultClockDepth)-1), DefaultClockDepth)
	if !errors.Is(err, ErrInsufficientWaveformBytes) {
		t.Errorf("err = %v, want ErrInsufficientWaveformBytes", err)
	}
}

func TestReadFlushADCInvalidClockDepth(t *testing.T) {
	_, _, err := ReadFlushADC(nil, 0)
	if !errors.Is(err, ErrInvalidClockDepth) {
		t.Errorf("err = %v, want ErrInvalidClockDepth", err)
	}
}

func TestWriteFlushADCRoundTrip(t *testing.T) {
	const clockDepth = 64
	event := rampEvent(0, 1, clockDepth)
	buf := make([]byte, WaveformSize(clockDepth))
	if err := writeFlushADC(buf, event.FADC, clockDepth); err != nil {
		t.Fatalf("writeFlushADC: %v", err)
	}
	fadc, rest, err := ReadFlushADC(buf, clockDepth)
	if err != nil {
		t.Fatalf("ReadFlushADC: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("%d bytes left over", len(rest))
	}
	if !reflect.DeepEqual(fadc, event.FADC) {
		t.Error("decoded waveform differs from the encoded one")
	}
}

func TestWriteFlushADCRejects(t *testing.T) {
	tests := []struct {
		name     string
		channels [NChannels][]uint16
	}{
		{"short channel", [NChannels][]uint16{{1, 2}, {1, 2}, {1}, {1, 2}}},
		{"sample too large", [NChannels][]uint16{{1, 2}, {1, 2}, {1, 1024}, {1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, WaveformSize(2))
			if err := writeFlushADC(buf, FlushADC{Channels: tt.channels}, 2); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBitReader(t *testing.T) {
	r := newBitReader([]byte{0b1011_0010, 0b1111_0000})
	for _, tc := range []struct {
		n    int
		want uint32
	}{
		{1, 1}, {3, 0b011}, {6, 0b0010_11}, {6, 0b11_0000},
	} {
		got, err := r.readBits(tc.n)
		if err != nil {
			t.Fatalf("readBits(%d): %v", tc.n, err)
		}
		if got != tc.want {
			t.Errorf("readBits(%d) = %b, want %b", tc.n, got, tc.want)
		}
	}
	if _, err := r.readBits(1); !errors.Is(err, errBitstreamExhausted) {
		t.Errorf("err = %v, want errBitstreamExhausted", err)
	}
}
