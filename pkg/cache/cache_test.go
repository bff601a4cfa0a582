package cache

import (
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	mada "github.com/upic-daq/mada_reader/pkg"
)

func openCache(t *testing.T) *AmplitudeCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "amplitudes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestAmplitudeCache(t *testing.T) {
	c := openCache(t)

	if _, ok, err := c.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = %t, %v", ok, err)
	}

	amps := mada.FileAmplitudes{
		PeakToPeak: [][mada.NChannels]float64{{10, 20, 30, 40}},
		Min:        []mada.Amplitude{{Kind: mada.AmplitudeMin, Value: [mada.NChannels]float64{-1, -2, -3, -4}, BaselineCorrected: true}},
		Max:        []mada.Amplitude{{Kind: mada.AmplitudeMax, Value: [mada.NChannels]float64{1, 2, 3, 4}, BaselineCorrected: true}},
		Events:     3,
		Skipped:    1,
	}
	if err := c.Put("file.mada", amps); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get("file.mada")
	if err != nil || !ok {
		t.Fatalf("Get = %t, %v", ok, err)
	}
	if !reflect.DeepEqual(got, amps) {
		t.Errorf("got %+v, want %+v", got, amps)
	}
	if n, err := c.Len(); err != nil || n != 1 {
		t.Errorf("Len = %d, %v", n, err)
	}
}

func TestAmplitudeCacheReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amplitudes.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("a", mada.FileAmplitudes{Events: 5}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	got, ok, err := c.Get("a")
	if err != nil || !ok || got.Events != 5 {
		t.Errorf("Get after reopen = %+v, %t, %v", got, ok, err)
	}
}

func TestAmplitudeCacheConcurrent(t *testing.T) {
	c := openCache(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := filepath.Join("run", string(rune('a'+i)))
			if err := c.Put(key, mada.FileAmplitudes{Events: i}); err != nil {
				t.Error(err)
			}
			if _, _, err := c.Get(key); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	if n, _ := c.Len(); n != 8 {
		t.Errorf("Len = %d, want 8", n)
	}
}
