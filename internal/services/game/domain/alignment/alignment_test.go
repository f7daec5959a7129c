package alignment

import "testing"

var testThresholds = Thresholds{EvilMax: -334, GoodMin: 334}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value int
		want  int
	}{
		{-5000, -1000},
		{-1000, -1000},
		{0, 0},
		{1000, 1000},
		{1050, 1000},
	}

	for _, tc := range tests {
		if got := Clamp(tc.value); got != tc.want {
			t.Fatalf("Clamp(%d) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestBandForBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value int
		want  Band
	}{
		{-1000, BandEvil},
		{-334, BandEvil},
		{-333, BandNeutral},
		{0, BandNeutral},
		{333, BandNeutral},
		{334, BandGood},
		{1000, BandGood},
	}

	for _, tc := range tests {
		if got := BandFor(tc.value, testThresholds); got != tc.want {
			t.Fatalf("BandFor(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value int
		want  string
	}{
		{-1000, "Pure Evil"},
		{-667, "Pure Evil"},
		{-666, "Evil"},
		{-334, "Evil"},
		{-333, "Neutral"},
		{333, "Neutral"},
		{334, "Good"},
		{666, "Good"},
		{667, "Pure Good"},
		{1000, "Pure Good"},
		{2000, "Pure Good"},
	}

	for _, tc := range tests {
		if got := Label(tc.value); got != tc.want {
			t.Fatalf("Label(%d) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
