package mada

import (
	"errors"
	"testing"
)

func TestReadHeader(t *testing.T) {
	frame := []byte{
		0xde, 0xad, 0xbe, 0xef, // padding, not validated
		0x00, 0x00, 0x8a, 0x1c, // trigger counter 35356
		0x00, 0x11, 0xf8, 0x5f, // clock counter 1177695
		0x00, 0x00, 0x00, 0x02, // input ch2 counter 2
		0xaa, 0xbb, // start of the waveform
	}

	header, rest, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	want := EventHeader{TriggerCounter: 35356, ClockCounter: 1177695, InputCh2Counter: 2}
	if header != want {
		t.Errorf("header = %+v, want %+v", header, want)
	}
	if len(rest) != 2 || &rest[0] != &frame[HeaderSize] {
		t.Errorf("remainder should be the bytes after the header, got %x", rest)
	}
	if got := header.Col(); got != "35356\t1177695\t2" {
		t.Errorf("Col() = %q", got)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	for _, size := range []int{0, 1, 4, HeaderSize - 1} {
		_, _, err := ReadHeader(make([]byte, size))
		if !errors.Is(err, ErrTruncatedHeader) {
			t.Errorf("%d bytes: err = %v, want ErrTruncatedHeader", size, err)
		}
	}
}

func TestPutHeader(t *testing.T) {
	want := EventHeader{TriggerCounter: 1, ClockCounter: 0xfffffffe, InputCh2Counter: 7}
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	putHeader(buf, want)
	for i := 0; i < headerPaddingSize; i++ {
		if buf[i] != 0 {
			t.Errorf("padding byte %d = %x, want 0", i, buf[i])
		}
	}
	got, _, err := ReadHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
