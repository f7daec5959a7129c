package filter

import (
	"testing"
	"time"
)

func TestParseKillFilterEmpty(t *testing.T) {
	t.Parallel()

	cond, err := ParseKillFilter("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "" || len(cond.Params) != 0 {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParseKillFilterEquality(t *testing.T) {
	t.Parallel()

	cond, err := ParseKillFilter(`zone_id = "pvp_arena"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "zone_id = ?" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if len(cond.Params) != 1 || cond.Params[0] != "pvp_arena" {
		t.Fatalf("params = %v", cond.Params)
	}
}

func TestParseKillFilterConjunction(t *testing.T) {
	t.Parallel()

	cond, err := ParseKillFilter(`zone_id = "wilderness" AND victim_id = "char-2"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "(zone_id = ? AND victim_id = ?)" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	if len(cond.Params) != 2 {
		t.Fatalf("params = %v", cond.Params)
	}
}

func TestParseKillFilterTimestamp(t *testing.T) {
	t.Parallel()

	cond, err := ParseKillFilter(`ts >= timestamp("2026-03-01T00:00:00Z")`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cond.Clause != "timestamp >= ?" {
		t.Fatalf("clause = %q", cond.Clause)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if len(cond.Params) != 1 || cond.Params[0] != want {
		t.Fatalf("params = %v, want [%d]", cond.Params, want)
	}
}

func TestParseKillFilterUnknownField(t *testing.T) {
	t.Parallel()

	if _, err := ParseKillFilter(`killer_id = "char-1"`); err == nil {
		t.Fatal("expected error for undeclared field")
	}
}

func TestParseKillFilterMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseKillFilter(`zone_id = `); err == nil {
		t.Fatal("expected error for malformed filter")
	}
}
