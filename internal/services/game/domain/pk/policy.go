// Package pk implements the player-kill policy engine. The engine is pure:
// it receives the killer's recent kill history and the victim's alignment and
// returns a decision, performing no I/O and reading no clocks of its own.
package pk

import (
	"strings"
	"time"

	"github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
)

// Config carries the tunable kill-policy values.
type Config struct {
	// Cooldown is the minimum delay between two kills by the same killer.
	Cooldown time.Duration
	// MaxKillsPerHour caps kills inside the rolling Window.
	MaxKillsPerHour int
	// Window is the rolling window for the hourly cap.
	Window time.Duration
	// TagDuration is how long a killer stays flagged as a player-killer.
	TagDuration time.Duration

	// Alignment holds the band thresholds for victim classification.
	Alignment alignment.Thresholds
	// KillGoodDelta is the killer's raw alignment change for a good victim.
	KillGoodDelta int
	// KillEvilDelta is the killer's raw alignment change for an evil victim.
	KillEvilDelta int
	// KillNeutralDelta is the killer's raw alignment change for a neutral victim.
	KillNeutralDelta int
}

// DenyReason explains a denied kill attempt.
type DenyReason string

const (
	// DenyOnCooldown means the killer's cooldown has not elapsed.
	DenyOnCooldown DenyReason = "ON_COOLDOWN"
	// DenyHourlyLimitReached means the rolling-window cap is exhausted.
	DenyHourlyLimitReached DenyReason = "HOURLY_LIMIT_REACHED"
)

// Decision is the outcome of evaluating a kill attempt. A denial is a
// decision, not an error: errors are reserved for malformed input.
type Decision struct {
	Allowed bool
	// Reason is set when the attempt is denied.
	Reason DenyReason
	// RetryAfter is how long until the attempt could succeed. Set for
	// both deny reasons.
	RetryAfter time.Duration
	// AlignmentDelta is the raw (unclamped) killer alignment change when
	// the attempt is allowed.
	AlignmentDelta int
}

// RetryAfterSeconds returns the retry delay rounded up to whole seconds.
// A denial always reports at least one second.
func (d Decision) RetryAfterSeconds() int64 {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	seconds := int64(d.RetryAfter / time.Second)
	if d.RetryAfter%time.Second != 0 {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// EvaluateKillAttempt decides whether killerID may kill victimID at the
// given instant. recentKills holds timestamps of the killer's prior kills;
// entries older than the policy window are ignored. The cooldown is checked
// before the hourly cap, so a denial during overlap reports ON_COOLDOWN.
func (c Config) EvaluateKillAttempt(killerID, victimID string, now time.Time, recentKills []time.Time, victimAlignment int) (Decision, error) {
	killerID = strings.TrimSpace(killerID)
	victimID = strings.TrimSpace(victimID)
	if killerID == "" {
		return Decision{}, errors.New(errors.CodeInvalidArgument, "killer id is required")
	}
	if victimID == "" {
		return Decision{}, errors.New(errors.CodeInvalidArgument, "victim id is required")
	}
	if killerID == victimID {
		return Decision{}, errors.New(errors.CodeSelfKill, "characters cannot kill themselves")
	}

	if decision, denied := c.checkCooldown(now, recentKills); denied {
		return decision, nil
	}
	if decision, denied := c.checkHourlyLimit(now, recentKills); denied {
		return decision, nil
	}

	return Decision{
		Allowed:        true,
		AlignmentDelta: c.deltaFor(victimAlignment),
	}, nil
}

// CooldownStatus reports whether a killer with the given latest kill time is
// still cooling down at the given instant.
func (c Config) CooldownStatus(now, lastKill time.Time) (onCooldown bool, retryAfter time.Duration) {
	if lastKill.IsZero() || c.Cooldown <= 0 {
		return false, 0
	}
	elapsed := now.Sub(lastKill)
	if elapsed >= c.Cooldown {
		return false, 0
	}
	return true, c.Cooldown - elapsed
}

// TaggedUntil returns when the player-killer flag from the given latest kill
// expires. The zero time means no active tag.
func (c Config) TaggedUntil(now, lastKill time.Time) time.Time {
	if lastKill.IsZero() || c.TagDuration <= 0 {
		return time.Time{}
	}
	until := lastKill.Add(c.TagDuration)
	if !until.After(now) {
		return time.Time{}
	}
	return until
}

func (c Config) checkCooldown(now time.Time, recentKills []time.Time) (Decision, bool) {
	if c.Cooldown <= 0 {
		return Decision{}, false
	}
	var latest time.Time
	for _, kill := range recentKills {
		if kill.After(latest) {
			latest = kill
		}
	}
	onCooldown, retryAfter := c.CooldownStatus(now, latest)
	if !onCooldown {
		return Decision{}, false
	}
	return Decision{Reason: DenyOnCooldown, RetryAfter: retryAfter}, true
}

func (c Config) checkHourlyLimit(now time.Time, recentKills []time.Time) (Decision, bool) {
	if c.MaxKillsPerHour <= 0 || c.Window <= 0 {
		return Decision{}, false
	}
	cutoff := now.Add(-c.Window)
	count := 0
	var oldest time.Time
	for _, kill := range recentKills {
		if !kill.After(cutoff) {
			continue
		}
		count++
		if oldest.IsZero() || kill.Before(oldest) {
			oldest = kill
		}
	}
	if count < c.MaxKillsPerHour {
		return Decision{}, false
	}
	return Decision{
		Reason:     DenyHourlyLimitReached,
		RetryAfter: oldest.Add(c.Window).Sub(now),
	}, true
}

func (c Config) deltaFor(victimAlignment int) int {
	switch alignment.BandFor(alignment.Clamp(victimAlignment), c.Alignment) {
	case alignment.BandGood:
		return c.KillGoodDelta
	case alignment.BandEvil:
		return c.KillEvilDelta
	default:
		return c.KillNeutralDelta
	}
}
