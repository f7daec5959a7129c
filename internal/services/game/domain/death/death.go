// Package death holds the pure death-penalty rules: what a character loses
// when they die and how respawn sickness is configured.
package death

import (
	"math"
	"strings"
	"time"

	"github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
)

// Reason classifies how a character died.
type Reason string

const (
	ReasonPvE           Reason = "pve"
	ReasonPvP           Reason = "pvp"
	ReasonEnvironmental Reason = "environmental"
	ReasonAdmin         Reason = "admin"
)

// ParseReason validates a death reason string.
func ParseReason(value string) (Reason, error) {
	switch Reason(strings.ToLower(strings.TrimSpace(value))) {
	case ReasonPvE:
		return ReasonPvE, nil
	case ReasonPvP:
		return ReasonPvP, nil
	case ReasonEnvironmental:
		return ReasonEnvironmental, nil
	case ReasonAdmin:
		return ReasonAdmin, nil
	}
	return "", errors.WithMetadata(errors.CodeInvalidDeathReason, "invalid death reason", map[string]string{"reason": value})
}

// RespawnLocation names where a dead character comes back to life.
type RespawnLocation string

const (
	LocationGraveyard    RespawnLocation = "graveyard"
	LocationSpiritHealer RespawnLocation = "spirit_healer"
	LocationBindPoint    RespawnLocation = "bind_point"
)

// ParseRespawnLocation validates a respawn location string. An empty value
// defaults to the graveyard.
func ParseRespawnLocation(value string) (RespawnLocation, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return LocationGraveyard, nil
	}
	switch RespawnLocation(value) {
	case LocationGraveyard:
		return LocationGraveyard, nil
	case LocationSpiritHealer:
		return LocationSpiritHealer, nil
	case LocationBindPoint:
		return LocationBindPoint, nil
	}
	return "", errors.WithMetadata(errors.CodeInvalidRespawnLocation, "invalid respawn location", map[string]string{"location": value})
}

// PenaltyConfig carries the tunable death-penalty values.
type PenaltyConfig struct {
	// XPLossPercent of the next-level requirement is deducted on death.
	XPLossPercent int
	// GoldLossPercent of carried gold is lost on death.
	GoldLossPercent int
	// DurabilityDamagePercent is reported to clients for equipped items.
	DurabilityDamagePercent int
	// SicknessDuration is how long resurrection sickness lasts after respawn.
	SicknessDuration time.Duration
	// SicknessDebuffPercent is the stat reduction while sick.
	SicknessDebuffPercent int
}

// Penalty is the computed loss for a single death.
type Penalty struct {
	GoldLost int64
	XPLost   int64
}

// ComputePenalty derives the losses for a character with the given carried
// gold and lifetime experience. The XP deduction never drops experience
// below the floor of the character's current level, so a death can reduce
// progress within a level but never the level itself.
func ComputePenalty(cfg PenaltyConfig, curve xp.Curve, gold, experience int64) Penalty {
	var penalty Penalty

	if gold > 0 && cfg.GoldLossPercent > 0 {
		penalty.GoldLost = percentOf(gold, cfg.GoldLossPercent)
	}

	if cfg.XPLossPercent > 0 {
		level := curve.LevelForExperience(experience)
		available := experience - curve.FloorForLevel(level)
		if available < 0 {
			available = 0
		}
		loss := percentOf(curve.RequiredForNext(level), cfg.XPLossPercent)
		if loss > available {
			loss = available
		}
		penalty.XPLost = loss
	}

	return penalty
}

// percentOf computes floor(value * pct / 100) without overflowing.
func percentOf(value int64, pct int) int64 {
	if value <= 0 || pct <= 0 {
		return 0
	}
	if pct >= 100 {
		return value
	}
	if value > math.MaxInt64/int64(pct) {
		return value / 100 * int64(pct)
	}
	return value * int64(pct) / 100
}
