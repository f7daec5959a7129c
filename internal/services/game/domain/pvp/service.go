// Package pvp orchestrates the player-kill workflow: it runs attempts
// through storage, maps denials to typed errors, and journals the
// resulting events.
package pvp

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/platform/pagination"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pk"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

var historyPageSize = pagination.PageSizeConfig{Default: 20, Max: 100}

const recentKillsLimit = 50

// Store is the storage surface the service depends on.
type Store interface {
	storage.PvpStore
	storage.KillLogStore
	storage.CharacterStore
}

// Service runs kill attempts and reads the kill log.
type Service struct {
	store   Store
	emitter *event.Emitter
	policy  pk.Config
	penalty death.PenaltyConfig
	curve   xp.Curve
	logger  *log.Logger
	now     func() time.Time
}

// NewService creates a pvp service.
func NewService(store Store, emitter *event.Emitter, policy pk.Config, penalty death.PenaltyConfig, curve xp.Curve, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   store,
		emitter: emitter,
		policy:  policy,
		penalty: penalty,
		curve:   curve,
		logger:  logger,
		now:     time.Now,
	}
}

// KillResult reports one committed kill.
type KillResult struct {
	Kill              storage.KillRecord
	PreviousAlignment int
	KillerAlignment   int
	AlignmentDelta    int
	VictimDeath       storage.DeathOutcome
	TaggedUntil       time.Time
}

// RecordKill attempts one player kill. A policy denial comes back as a
// typed error carrying the retry delay, so callers never see a partial
// result.
func (s *Service) RecordKill(ctx context.Context, killerID, victimID, zoneID string) (KillResult, error) {
	now := s.now().UTC()
	outcome, err := s.store.RecordKill(ctx, storage.RecordKillInput{
		KillerID: killerID,
		VictimID: victimID,
		ZoneID:   zoneID,
		Now:      now,
		Policy:   s.policy,
		Penalty:  s.penalty,
		Curve:    s.curve,
	})
	if err != nil {
		return KillResult{}, err
	}
	if !outcome.Decision.Allowed {
		return KillResult{}, denialError(outcome.Decision)
	}

	s.emitKillEvents(ctx, outcome)

	return KillResult{
		Kill:              outcome.Kill,
		PreviousAlignment: outcome.PreviousAlignment,
		KillerAlignment:   outcome.KillerAlignment,
		AlignmentDelta:    outcome.Decision.AlignmentDelta,
		VictimDeath:       outcome.VictimDeath,
		TaggedUntil:       s.policy.TaggedUntil(now, outcome.Kill.Timestamp),
	}, nil
}

// emitKillEvents journals a committed kill. The mutations are already
// durable, so journal failures are logged and never surfaced.
func (s *Service) emitKillEvents(ctx context.Context, outcome storage.KillOutcome) {
	if s.emitter == nil {
		return
	}
	if _, err := s.emitter.EmitPvpKill(ctx, event.PvpKillPayload{
		KillID:         outcome.Kill.ID,
		KillerID:       outcome.Kill.KillerID,
		VictimID:       outcome.Kill.VictimID,
		ZoneID:         outcome.Kill.ZoneID,
		AlignmentDelta: outcome.Decision.AlignmentDelta,
	}); err != nil {
		s.logger.Printf("emit pvp.kill event: %v", err)
	}
	if _, err := s.emitter.EmitCharacterDeath(ctx, event.CharacterDeathPayload{
		CharacterID: outcome.Kill.VictimID,
		KillerID:    outcome.Kill.KillerID,
		Reason:      string(death.ReasonPvP),
		GoldLost:    outcome.VictimDeath.GoldLost,
		XPLost:      outcome.VictimDeath.XPLost,
	}); err != nil {
		s.logger.Printf("emit character.death event: %v", err)
	}
	if outcome.KillerAlignment != outcome.PreviousAlignment {
		if _, err := s.emitter.EmitAlignmentChanged(ctx, event.AlignmentChangedPayload{
			CharacterID: outcome.Kill.KillerID,
			Previous:    outcome.PreviousAlignment,
			Current:     outcome.KillerAlignment,
		}); err != nil {
			s.logger.Printf("emit character.alignment_changed event: %v", err)
		}
	}
	if outcome.VictimDeath.XPLost > 0 {
		if _, err := s.emitter.EmitXPLost(ctx, event.XPLostPayload{
			CharacterID: outcome.Kill.VictimID,
			Amount:      outcome.VictimDeath.XPLost,
			Reason:      string(death.ReasonPvP),
		}); err != nil {
			s.logger.Printf("emit character.xp_lost event: %v", err)
		}
	}
}

func denialError(decision pk.Decision) error {
	metadata := map[string]string{
		"retry_after_seconds": strconv.FormatInt(decision.RetryAfterSeconds(), 10),
	}
	switch decision.Reason {
	case pk.DenyHourlyLimitReached:
		return apperrors.WithMetadata(apperrors.CodeHourlyLimitReached, "hourly kill limit reached", metadata)
	default:
		return apperrors.WithMetadata(apperrors.CodeOnCooldown, "kill cooldown active", metadata)
	}
}

// CooldownStatus reports a character's cooldown and player-killer tag.
type CooldownStatus struct {
	CharacterID       string
	OnCooldown        bool
	RetryAfterSeconds int64
	TaggedUntil       time.Time
	LastKillAt        time.Time
}

// CheckCooldown reports whether a character may attempt a kill right now.
func (s *Service) CheckCooldown(ctx context.Context, characterID string) (CooldownStatus, error) {
	if _, err := s.store.GetCharacter(ctx, characterID); err != nil {
		return CooldownStatus{}, mapCharacterError(characterID, err)
	}

	status := CooldownStatus{CharacterID: characterID}
	latest, err := s.store.LatestKillByKiller(ctx, characterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return status, nil
		}
		return CooldownStatus{}, err
	}

	now := s.now().UTC()
	onCooldown, retryAfter := s.policy.CooldownStatus(now, latest.Timestamp)
	status.OnCooldown = onCooldown
	if onCooldown {
		status.RetryAfterSeconds = pk.Decision{RetryAfter: retryAfter}.RetryAfterSeconds()
	}
	status.TaggedUntil = s.policy.TaggedUntil(now, latest.Timestamp)
	status.LastKillAt = latest.Timestamp
	return status, nil
}

// KillHistory returns one page of a character's kills, newest first.
func (s *Service) KillHistory(ctx context.Context, characterID string, pageSize int, pageToken, filter string) (storage.KillPage, error) {
	if _, err := s.store.GetCharacter(ctx, characterID); err != nil {
		return storage.KillPage{}, mapCharacterError(characterID, err)
	}
	return s.store.ListKillsByKiller(ctx, characterID, pagination.ClampPageSize(pageSize, historyPageSize), pageToken, filter)
}

// RecentKills returns the newest kills server-wide.
func (s *Service) RecentKills(ctx context.Context, limit int) ([]storage.KillRecord, error) {
	if limit <= 0 || limit > recentKillsLimit {
		limit = recentKillsLimit
	}
	return s.store.ListRecentKills(ctx, limit)
}

func mapCharacterError(characterID string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.WithMetadata(
			apperrors.CodeNotFound,
			"character not found",
			map[string]string{"character_id": characterID},
		)
	}
	return err
}
