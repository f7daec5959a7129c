package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/platform/id"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

// deathTxInput carries the data applyDeathTx needs beyond the loaded victim.
type deathTxInput struct {
	KillerID string
	Reason   death.Reason
	Now      time.Time
	Penalty  death.PenaltyConfig
	Curve    xp.Curve
}

// applyDeathTx marks a loaded, living character dead and applies the penalty
// inside the caller's transaction: it deducts gold and experience, records
// the deductions in the ledgers, and stamps died_at.
func applyDeathTx(ctx context.Context, tx *sql.Tx, victim storage.Character, input deathTxInput) (storage.DeathOutcome, error) {
	penalty := death.ComputePenalty(input.Penalty, input.Curve, victim.Gold, victim.Experience)

	newGold := victim.Gold - penalty.GoldLost
	newExperience := victim.Experience - penalty.XPLost

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE characters
		    SET gold = ?, experience = ?, alive = 0, died_at = ?, updated_at = ?
		  WHERE id = ?`,
		newGold, newExperience, toMillis(input.Now), toMillis(input.Now), victim.ID,
	); err != nil {
		return storage.DeathOutcome{}, fmt.Errorf("mark character dead: %w", err)
	}

	if penalty.XPLost > 0 {
		entryID, err := id.NewID()
		if err != nil {
			return storage.DeathOutcome{}, fmt.Errorf("generate ledger id: %w", err)
		}
		reason := fmt.Sprintf("Death penalty (%d%% XP loss, %s)", input.Penalty.XPLossPercent, input.Reason)
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO xp_ledger (id, character_id, change, reason, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			entryID, victim.ID, -penalty.XPLost, reason, toMillis(input.Now),
		); err != nil {
			return storage.DeathOutcome{}, fmt.Errorf("append xp ledger entry: %w", err)
		}
	}
	if penalty.GoldLost > 0 {
		txnID, err := id.NewID()
		if err != nil {
			return storage.DeathOutcome{}, fmt.Errorf("generate transaction id: %w", err)
		}
		description := fmt.Sprintf("Death penalty (%d%% gold loss, %s)", input.Penalty.GoldLossPercent, input.Reason)
		if input.KillerID != "" {
			description += ", killed by " + input.KillerID
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO gold_transactions (id, character_id, amount, type, description, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			txnID, victim.ID, -penalty.GoldLost, string(storage.TransactionDeathPenalty), description, toMillis(input.Now),
		); err != nil {
			return storage.DeathOutcome{}, fmt.Errorf("append gold transaction: %w", err)
		}
	}

	return storage.DeathOutcome{
		CharacterID: victim.ID,
		GoldLost:    penalty.GoldLost,
		XPLost:      penalty.XPLost,
		Experience:  newExperience,
		Gold:        newGold,
		DiedAt:      input.Now,
	}, nil
}

// ApplyDeath marks one character dead and applies the death penalty in a
// single transaction.
func (s *Store) ApplyDeath(ctx context.Context, input storage.ApplyDeathInput) (storage.DeathOutcome, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeathOutcome{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DeathOutcome{}, fmt.Errorf("storage is not configured")
	}
	characterID := strings.TrimSpace(input.CharacterID)
	if characterID == "" {
		return storage.DeathOutcome{}, apperrors.New(apperrors.CodeInvalidArgument, "character id is required")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.DeathOutcome{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	victim, err := getCharacterTx(ctx, tx, characterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DeathOutcome{}, characterNotFound(characterID)
		}
		return storage.DeathOutcome{}, fmt.Errorf("load character: %w", err)
	}
	if !victim.Alive {
		return storage.DeathOutcome{}, apperrors.WithMetadata(
			apperrors.CodeAlreadyDead,
			"character is already dead",
			map[string]string{"character_id": characterID},
		)
	}

	outcome, err := applyDeathTx(ctx, tx, victim, deathTxInput{
		KillerID: strings.TrimSpace(input.KillerID),
		Reason:   input.Reason,
		Now:      now,
		Penalty:  input.Penalty,
		Curve:    input.Curve,
	})
	if err != nil {
		return storage.DeathOutcome{}, err
	}

	if err := tx.Commit(); err != nil {
		return storage.DeathOutcome{}, fmt.Errorf("commit: %w", err)
	}
	return outcome, nil
}

// Respawn brings one dead character back to life and starts resurrection
// sickness.
func (s *Store) Respawn(ctx context.Context, input storage.RespawnInput) (storage.Character, error) {
	if err := ctx.Err(); err != nil {
		return storage.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Character{}, fmt.Errorf("storage is not configured")
	}
	characterID := strings.TrimSpace(input.CharacterID)
	if characterID == "" {
		return storage.Character{}, apperrors.New(apperrors.CodeInvalidArgument, "character id is required")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Character{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	character, err := getCharacterTx(ctx, tx, characterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Character{}, characterNotFound(characterID)
		}
		return storage.Character{}, fmt.Errorf("load character: %w", err)
	}
	if character.Alive {
		return storage.Character{}, apperrors.WithMetadata(
			apperrors.CodeNotDead,
			"character is not dead",
			map[string]string{"character_id": characterID},
		)
	}

	var sicknessUntil *time.Time
	if input.SicknessDuration > 0 {
		until := now.Add(input.SicknessDuration)
		sicknessUntil = &until
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE characters
		    SET alive = 1, died_at = NULL, sickness_until = ?, updated_at = ?
		  WHERE id = ?`,
		toMillisPtr(sicknessUntil), toMillis(now), characterID,
	); err != nil {
		return storage.Character{}, fmt.Errorf("respawn character: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Character{}, fmt.Errorf("commit: %w", err)
	}

	character.Alive = true
	character.DiedAt = nil
	character.SicknessUntil = sicknessUntil
	character.UpdatedAt = now
	return character, nil
}
