package mada

import "testing"

func TestSplitFrames(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"two frames", "uPICxxxuPICyyy", []string{"xxx", "yyy"}},
		{"trailing marker", "uPICxxxuPIC", []string{"xxx"}},
		{"consecutive markers", "uPICuPICxxx", []string{"xxx"}},
		{"leading bytes", "abcuPICxxx", []string{"abc", "xxx"}},
		{"no marker", "xxx", []string{"xxx"}},
		{"only marker", "uPIC", nil},
		{"empty", "", nil},
		{"partial marker is data", "uPICxuPIyy", []string{"xuPIyy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFrames([]byte(tt.data))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d frames %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if string(got[i]) != tt.want[i] {
					t.Errorf("frame %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitFramesSharesBuffer(t *testing.T) {
	data := []byte("uPICxxxuPICyyy")
	frames := SplitFrames(data)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if &frames[0][0] != &data[4] || &frames[1][0] != &data[11] {
		t.Error("frames should be sub-slices of the input buffer")
	}
}
