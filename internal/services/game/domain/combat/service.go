// Package combat applies deaths and respawns outside the pvp workflow and
// reports combat status for characters.
package combat

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

// Store is the storage surface the service depends on.
type Store interface {
	storage.CombatStore
	storage.CharacterStore
	storage.KillLogStore
}

// Service processes deaths, respawns, and status lookups.
type Service struct {
	store   Store
	emitter *event.Emitter
	penalty death.PenaltyConfig
	curve   xp.Curve
	logger  *log.Logger
	now     func() time.Time
}

// NewService creates a combat service.
func NewService(store Store, emitter *event.Emitter, penalty death.PenaltyConfig, curve xp.Curve, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   store,
		emitter: emitter,
		penalty: penalty,
		curve:   curve,
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessDeath kills one character and applies the death penalty. killerID
// is empty for deaths without a killing character.
func (s *Service) ProcessDeath(ctx context.Context, characterID, killerID, reason string) (storage.DeathOutcome, error) {
	parsedReason, err := death.ParseReason(reason)
	if err != nil {
		return storage.DeathOutcome{}, err
	}

	outcome, err := s.store.ApplyDeath(ctx, storage.ApplyDeathInput{
		CharacterID: characterID,
		KillerID:    killerID,
		Reason:      parsedReason,
		Now:         s.now().UTC(),
		Penalty:     s.penalty,
		Curve:       s.curve,
	})
	if err != nil {
		return storage.DeathOutcome{}, err
	}

	if s.emitter != nil {
		if _, err := s.emitter.EmitCharacterDeath(ctx, event.CharacterDeathPayload{
			CharacterID: outcome.CharacterID,
			KillerID:    killerID,
			Reason:      string(parsedReason),
			GoldLost:    outcome.GoldLost,
			XPLost:      outcome.XPLost,
		}); err != nil {
			s.logger.Printf("emit character.death event: %v", err)
		}
		if outcome.XPLost > 0 {
			if _, err := s.emitter.EmitXPLost(ctx, event.XPLostPayload{
				CharacterID: outcome.CharacterID,
				Amount:      outcome.XPLost,
				Reason:      string(parsedReason),
			}); err != nil {
				s.logger.Printf("emit character.xp_lost event: %v", err)
			}
		}
	}
	return outcome, nil
}

// Respawn brings one dead character back to life with resurrection sickness.
func (s *Service) Respawn(ctx context.Context, characterID, location string) (storage.Character, error) {
	parsedLocation, err := death.ParseRespawnLocation(location)
	if err != nil {
		return storage.Character{}, err
	}

	character, err := s.store.Respawn(ctx, storage.RespawnInput{
		CharacterID:      characterID,
		Location:         parsedLocation,
		Now:              s.now().UTC(),
		SicknessDuration: s.penalty.SicknessDuration,
	})
	if err != nil {
		return storage.Character{}, err
	}

	if s.emitter != nil {
		payload := event.CharacterRespawnPayload{
			CharacterID: character.ID,
			Location:    string(parsedLocation),
		}
		if character.SicknessUntil != nil {
			payload.SicknessUntil = *character.SicknessUntil
		}
		if _, err := s.emitter.EmitCharacterRespawn(ctx, payload); err != nil {
			s.logger.Printf("emit character.respawn event: %v", err)
		}
	}
	return character, nil
}

// Status is a character's combat summary.
type Status struct {
	CharacterID            string
	Alive                  bool
	DiedAt                 *time.Time
	SicknessRemainingSecs  int64
	SicknessDebuffPercent  int
	Level                  int
	Experience             int64
	ExperienceIntoLevel    int64
	ExperienceRequiredNext int64
	Gold                   int64
	Alignment              int
	AlignmentLabel         string
	Kills                  int64
	Deaths                 int64
}

// Status reports one character's combat state.
func (s *Service) Status(ctx context.Context, characterID string) (Status, error) {
	character, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return Status{}, mapCharacterError(characterID, err)
	}

	kills, err := s.store.CountKillsByKiller(ctx, character.ID)
	if err != nil {
		return Status{}, err
	}
	deaths, err := s.store.CountDeathsByVictim(ctx, character.ID)
	if err != nil {
		return Status{}, err
	}

	into, required := s.curve.ProgressToNext(character.Experience)
	status := Status{
		CharacterID:            character.ID,
		Alive:                  character.Alive,
		DiedAt:                 character.DiedAt,
		Level:                  s.curve.LevelForExperience(character.Experience),
		Experience:             character.Experience,
		ExperienceIntoLevel:    into,
		ExperienceRequiredNext: required,
		Gold:                   character.Gold,
		Alignment:              character.Alignment,
		AlignmentLabel:         alignment.Label(character.Alignment),
		Kills:                  kills,
		Deaths:                 deaths,
	}
	if character.SicknessUntil != nil {
		remaining := character.SicknessUntil.Sub(s.now().UTC())
		if remaining > 0 {
			secs := int64(remaining / time.Second)
			if remaining%time.Second != 0 {
				secs++
			}
			status.SicknessRemainingSecs = secs
			status.SicknessDebuffPercent = s.penalty.SicknessDebuffPercent
		}
	}
	return status, nil
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
