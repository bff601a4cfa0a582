package mada

import "bytes"

var marker = []byte(Marker)

// SplitFrames slices data on every occurrence of the event marker. Frames share the
// backing array of data and keep file order; empty spans are dropped.
func SplitFrames(data []byte) [][]byte {
	parts := bytes.Split(data, marker)
	frames := parts[:0]
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		frames = append(frames, part)
	}
	return frames
}
