package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	cfg := PageSizeConfig{Default: 20, Max: 100}

	tests := []struct {
		name  string
		value int
		want  int
	}{
		{"zero uses default", 0, 20},
		{"negative uses default", -5, 20},
		{"within range", 50, 50},
		{"above max clamps", 500, 100},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampPageSize(tc.value, cfg); got != tc.want {
				t.Fatalf("ClampPageSize(%d) = %d, want %d", tc.value, got, tc.want)
			}
		})
	}
}

func TestClampPageSizeWithoutDefaults(t *testing.T) {
	t.Parallel()

	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize(0) = %d, want 1", got)
	}
}
