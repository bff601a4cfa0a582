package mada

import "testing"

func TestGainEntries(t *testing.T) {
	results := []BoardAmplitudeAverage{
		{
			Board:            "GBKB-00",
			Files:            2,
			PeakToPeak:       [NChannels]float64{20, 30, 40, 50},
			PeakToPeakEvents: 2,
			Min:              Amplitude{Kind: AmplitudeMin, Value: [NChannels]float64{-1, -2, -3, -4}},
			Max:              Amplitude{Kind: AmplitudeMax, Value: [NChannels]float64{1, 2, 3, 4}},
			AmplitudeEvents:  1,
		},
		{
			Board:            "GBKB-03",
			Files:            1,
			PeakToPeak:       [NChannels]float64{7, 7, 7, 7},
			PeakToPeakEvents: 3,
			Err:              &BoardError{Board: "GBKB-03", Statistic: StatMinAmplitude, Err: ErrEmptyAggregationSet},
		},
		{Board: "GBKB-13"},
	}

	entries := GainEntries("run042", results)
	if len(entries) != 2*NChannels {
		t.Fatalf("got %d entries, want %d", len(entries), 2*NChannels)
	}

	first := entries[2]
	if first.Run != "run042" || first.Board != "GBKB-00" || first.Channel != 2 || first.NEvents != 2 {
		t.Errorf("entry = %+v", first)
	}
	if first.PeakToPeak == nil || *first.PeakToPeak != 40 {
		t.Errorf("peak-to-peak = %v, want 40", first.PeakToPeak)
	}
	if first.MinAmplitude == nil || *first.MinAmplitude != -3 || first.MaxAmplitude == nil || *first.MaxAmplitude != 3 {
		t.Errorf("amplitudes = %v / %v, want -3 / 3", first.MinAmplitude, first.MaxAmplitude)
	}

	missing := entries[NChannels]
	if missing.Board != "GBKB-03" || missing.MinAmplitude != nil || missing.MaxAmplitude != nil {
		t.Errorf("entry without amplitudes = %+v", missing)
	}
	if missing.PeakToPeak == nil || *missing.PeakToPeak != 7 {
		t.Errorf("peak-to-peak = %v, want 7", missing.PeakToPeak)
	}
}
