package pk

import (
	stderrors "errors"
	"testing"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
)

var testConfig = Config{
	Cooldown:         10 * time.Minute,
	MaxKillsPerHour:  6,
	Window:           time.Hour,
	TagDuration:      30 * time.Minute,
	Alignment:        alignment.Thresholds{EvilMax: -334, GoodMin: 334},
	KillGoodDelta:    -50,
	KillEvilDelta:    25,
	KillNeutralDelta: -10,
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateSelfKill(t *testing.T) {
	t.Parallel()

	_, err := testConfig.EvaluateKillAttempt("char-1", "char-1", baseTime, nil, 0)
	if err == nil {
		t.Fatal("expected self-kill error")
	}
	var domainErr *apperrors.Error
	if !stderrors.As(err, &domainErr) || domainErr.Code != apperrors.CodeSelfKill {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateMissingIDs(t *testing.T) {
	t.Parallel()

	if _, err := testConfig.EvaluateKillAttempt("", "char-2", baseTime, nil, 0); err == nil {
		t.Fatal("expected error for empty killer id")
	}
	if _, err := testConfig.EvaluateKillAttempt("char-1", "  ", baseTime, nil, 0); err == nil {
		t.Fatal("expected error for empty victim id")
	}
}

func TestEvaluateFirstKillAllowed(t *testing.T) {
	t.Parallel()

	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, nil, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allow, got deny %q", decision.Reason)
	}
	if decision.AlignmentDelta != -10 {
		t.Fatalf("delta = %d, want -10 for neutral victim", decision.AlignmentDelta)
	}
}

func TestEvaluateCooldownDenied(t *testing.T) {
	t.Parallel()

	recent := []time.Time{baseTime.Add(-3 * time.Minute)}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected deny")
	}
	if decision.Reason != DenyOnCooldown {
		t.Fatalf("reason = %q, want %q", decision.Reason, DenyOnCooldown)
	}
	if got := decision.RetryAfterSeconds(); got != 420 {
		t.Fatalf("retry after = %d, want 420", got)
	}
}

func TestEvaluateCooldownRetryRoundsUp(t *testing.T) {
	t.Parallel()

	recent := []time.Time{baseTime.Add(-3*time.Minute - 500*time.Millisecond)}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := decision.RetryAfterSeconds(); got != 420 {
		t.Fatalf("retry after = %d, want 420 (rounded up)", got)
	}
}

func TestEvaluateCooldownExactlyElapsed(t *testing.T) {
	t.Parallel()

	recent := []time.Time{baseTime.Add(-10 * time.Minute)}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allow at exact cooldown boundary, got %q", decision.Reason)
	}
}

func TestEvaluateHourlyLimitDenied(t *testing.T) {
	t.Parallel()

	// Six kills spread over the window, all past their cooldown.
	var recent []time.Time
	for i := 0; i < 6; i++ {
		recent = append(recent, baseTime.Add(-time.Duration(11+i*8)*time.Minute))
	}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected deny")
	}
	if decision.Reason != DenyHourlyLimitReached {
		t.Fatalf("reason = %q, want %q", decision.Reason, DenyHourlyLimitReached)
	}
	if decision.RetryAfter <= 0 {
		t.Fatal("expected positive retry-after for hourly limit")
	}
}

func TestEvaluateCooldownCheckedBeforeHourlyLimit(t *testing.T) {
	t.Parallel()

	// Killer is simultaneously on cooldown and at the hourly cap. The
	// cooldown wins.
	recent := []time.Time{baseTime.Add(-2 * time.Minute)}
	for i := 0; i < 5; i++ {
		recent = append(recent, baseTime.Add(-time.Duration(12+i*9)*time.Minute))
	}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if decision.Reason != DenyOnCooldown {
		t.Fatalf("reason = %q, want %q", decision.Reason, DenyOnCooldown)
	}
}

func TestEvaluateKillsOutsideWindowIgnored(t *testing.T) {
	t.Parallel()

	// Six kills, but one is older than the window.
	recent := []time.Time{baseTime.Add(-2 * time.Hour)}
	for i := 0; i < 5; i++ {
		recent = append(recent, baseTime.Add(-time.Duration(11+i*9)*time.Minute))
	}
	decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, recent, 0)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("expected allow, got %q", decision.Reason)
	}
}

func TestEvaluateAlignmentDeltas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		victimAlignment int
		want            int
	}{
		{"good victim", 500, -50},
		{"good boundary", 334, -50},
		{"neutral upper boundary", 333, -10},
		{"neutral", 0, -10},
		{"neutral lower boundary", -333, -10},
		{"evil boundary", -334, 25},
		{"evil victim", -800, 25},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			decision, err := testConfig.EvaluateKillAttempt("char-1", "char-2", baseTime, nil, tc.victimAlignment)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if decision.AlignmentDelta != tc.want {
				t.Fatalf("delta = %d, want %d", decision.AlignmentDelta, tc.want)
			}
		})
	}
}

func TestCooldownStatus(t *testing.T) {
	t.Parallel()

	onCooldown, retryAfter := testConfig.CooldownStatus(baseTime, baseTime.Add(-4*time.Minute))
	if !onCooldown {
		t.Fatal("expected cooldown active")
	}
	if retryAfter != 6*time.Minute {
		t.Fatalf("retry after = %v, want 6m", retryAfter)
	}

	onCooldown, _ = testConfig.CooldownStatus(baseTime, time.Time{})
	if onCooldown {
		t.Fatal("expected no cooldown without prior kill")
	}
}

func TestTaggedUntil(t *testing.T) {
	t.Parallel()

	until := testConfig.TaggedUntil(baseTime, baseTime.Add(-10*time.Minute))
	if want := baseTime.Add(20 * time.Minute); !until.Equal(want) {
		t.Fatalf("tagged until = %v, want %v", until, want)
	}

	if until := testConfig.TaggedUntil(baseTime, baseTime.Add(-time.Hour)); !until.IsZero() {
		t.Fatalf("expected expired tag, got %v", until)
	}
}
