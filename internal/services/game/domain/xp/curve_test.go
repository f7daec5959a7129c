package xp

import (
	"math"
	"testing"
)

var testCurve = Curve{BaseXP: 1000, Scaling: 1.2, MaxLevel: 1000}

func TestRequiredForNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int64
	}{
		{1, 1000},
		{2, 1200},
		{3, 1440},
		{4, 1728},
		{10, 5159},
	}

	for _, tc := range tests {
		if got := testCurve.RequiredForNext(tc.level); got != tc.want {
			t.Fatalf("RequiredForNext(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestRequiredForNextAtCap(t *testing.T) {
	t.Parallel()

	if got := testCurve.RequiredForNext(1000); got != math.MaxInt64 {
		t.Fatalf("RequiredForNext(1000) = %d, want MaxInt64", got)
	}
	if got := testCurve.RequiredForNext(500); got != math.MaxInt64 {
		t.Fatalf("RequiredForNext(500) = %d, want saturated MaxInt64", got)
	}
}

func TestFloorForLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  int64
	}{
		{1, 0},
		{2, 1000},
		{3, 2200},
		{4, 3640},
	}

	for _, tc := range tests {
		if got := testCurve.FloorForLevel(tc.level); got != tc.want {
			t.Fatalf("FloorForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestLevelForExperience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		experience int64
		want       int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{2199, 2},
		{2200, 3},
		{-50, 1},
	}

	for _, tc := range tests {
		if got := testCurve.LevelForExperience(tc.experience); got != tc.want {
			t.Fatalf("LevelForExperience(%d) = %d, want %d", tc.experience, got, tc.want)
		}
	}
}

func TestLevelNeverExceedsCap(t *testing.T) {
	t.Parallel()

	small := Curve{BaseXP: 10, Scaling: 1.01, MaxLevel: 5}
	if got := small.LevelForExperience(math.MaxInt64); got != 5 {
		t.Fatalf("LevelForExperience(max) = %d, want 5", got)
	}
}

func TestProgressToNext(t *testing.T) {
	t.Parallel()

	into, required := testCurve.ProgressToNext(1500)
	if into != 500 {
		t.Fatalf("into = %d, want 500", into)
	}
	if required != 1200 {
		t.Fatalf("required = %d, want 1200", required)
	}
}
