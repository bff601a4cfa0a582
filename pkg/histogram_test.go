package mada

import (
	"reflect"
	"testing"
)

func clockEvents(clocks ...uint32) []Event {
	events := make([]Event, len(clocks))
	for i, c := range clocks {
		events[i].Header.ClockCounter = c
	}
	return events
}

func TestClockHistogram(t *testing.T) {
	tests := []struct {
		name    string
		clocks  []uint32
		maxBins int
		want    Histogram
	}{
		{"unit bins", []uint32{10, 12, 12, 13}, 100, Histogram{Min: 10, Width: 1, Counts: []int{1, 0, 2, 1}}},
		{"wide bins", []uint32{0, 9, 10, 19, 20}, 3, Histogram{Min: 0, Width: 7, Counts: []int{1, 2, 2}}},
		{"single value", []uint32{5, 5}, 10, Histogram{Min: 5, Width: 1, Counts: []int{2}}},
		{"full range", []uint32{0, 0xffffffff}, 2, Histogram{Min: 0, Width: 1 << 31, Counts: []int{1, 1}}},
		{"no events", nil, 10, Histogram{Width: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClockHistogram(clockEvents(tt.clocks...), tt.maxBins)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHistogramEdge(t *testing.T) {
	h := Histogram{Min: 100, Width: 5, Counts: make([]int, 3)}
	if h.Edge(0) != 100 || h.Edge(2) != 110 {
		t.Errorf("edges = %d, %d", h.Edge(0), h.Edge(2))
	}
}
