package mada

import "errors"

var errBitstreamExhausted = errors.New("bitstream exhausted")

// bitReader reads fields of up to 32 bits from a dense MSB-first bitstream.
type bitReader struct {
	data []byte
	pos  int // in bits
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (r *bitReader) remaining() int {
	return len(r.data)*8 - r.pos
}

func (r *bitReader) readBits(n int) (uint32, error) {
	if n > 32 || n > r.remaining() {
		return 0, errBitstreamExhausted
	}
	var value uint32
	for n > 0 {
		current := r.data[r.pos>>3]
		available := 8 - r.pos&7
		take := available
		if n < take {
			take = n
		}
		bits := (uint32(current) >> (available - take)) & (1<<take - 1)
		value = value<<take | bits
		n -= take
		r.pos += take
	}
	return value, nil
}

// bitWriter is the counterpart of bitReader. The destination must be zeroed.
type bitWriter struct {
	data []byte
	pos  int
}

func newBitWriter(data []byte) *bitWriter {
	return &bitWriter{data: data}
}

func (w *bitWriter) writeBits(value uint32, n int) error {
	if n > 32 || n > len(w.data)*8-w.pos {
		return errBitstreamExhausted
	}
	for n > 0 {
		available := 8 - w.pos&7
		take := available
		if n < take {
			take = n
		}
		bits := (value >> (n - take)) & (1<<take - 1)
		w.data[w.pos>>3] |= byte(bits << (available - take))
		n -= take
		w.pos += take
	}
	return nil
}
