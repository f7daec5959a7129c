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
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pk"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

// RecordKill runs the kill workflow in one transaction: it reloads the
// killer's recent kills, evaluates the policy, appends the kill record,
// applies the killer's clamped alignment change, and applies the victim's
// death penalty. A denied attempt writes nothing and is reported through
// the decision, not an error.
func (s *Store) RecordKill(ctx context.Context, input storage.RecordKillInput) (storage.KillOutcome, error) {
	if err := ctx.Err(); err != nil {
		return storage.KillOutcome{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.KillOutcome{}, fmt.Errorf("storage is not configured")
	}
	killerID := strings.TrimSpace(input.KillerID)
	victimID := strings.TrimSpace(input.VictimID)
	if killerID == "" {
		return storage.KillOutcome{}, apperrors.New(apperrors.CodeInvalidArgument, "killer id is required")
	}
	if victimID == "" {
		return storage.KillOutcome{}, apperrors.New(apperrors.CodeInvalidArgument, "victim id is required")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Millisecond)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.KillOutcome{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	killer, err := getCharacterTx(ctx, tx, killerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.KillOutcome{}, characterNotFound(killerID)
		}
		return storage.KillOutcome{}, fmt.Errorf("load killer: %w", err)
	}
	if !killer.Alive {
		return storage.KillOutcome{}, apperrors.WithMetadata(
			apperrors.CodeAlreadyDead,
			"dead characters cannot kill",
			map[string]string{"character_id": killerID},
		)
	}

	victim, err := getCharacterTx(ctx, tx, victimID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.KillOutcome{}, characterNotFound(victimID)
		}
		return storage.KillOutcome{}, fmt.Errorf("load victim: %w", err)
	}
	if !victim.Alive {
		return storage.KillOutcome{}, apperrors.WithMetadata(
			apperrors.CodeAlreadyDead,
			"victim is already dead",
			map[string]string{"character_id": victimID},
		)
	}

	recentKills, err := recentKillTimesTx(ctx, tx, killerID, now, input.Policy)
	if err != nil {
		return storage.KillOutcome{}, fmt.Errorf("load recent kills: %w", err)
	}

	decision, err := input.Policy.EvaluateKillAttempt(killerID, victimID, now, recentKills, victim.Alignment)
	if err != nil {
		return storage.KillOutcome{}, err
	}
	if !decision.Allowed {
		return storage.KillOutcome{Decision: decision}, nil
	}

	killID, err := id.NewID()
	if err != nil {
		return storage.KillOutcome{}, fmt.Errorf("generate kill id: %w", err)
	}
	kill := storage.KillRecord{
		ID:        killID,
		KillerID:  killerID,
		VictimID:  victimID,
		ZoneID:    strings.TrimSpace(input.ZoneID),
		Timestamp: now,
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO pk_kill_log (id, killer_id, victim_id, zone_id, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		kill.ID, kill.KillerID, kill.VictimID, kill.ZoneID, toMillis(kill.Timestamp),
	); err != nil {
		return storage.KillOutcome{}, fmt.Errorf("append kill record: %w", err)
	}

	newAlignment := alignment.Clamp(killer.Alignment + decision.AlignmentDelta)
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE characters SET alignment = ?, updated_at = ? WHERE id = ?`,
		newAlignment, toMillis(now), killerID,
	); err != nil {
		return storage.KillOutcome{}, fmt.Errorf("update killer alignment: %w", err)
	}

	victimDeath, err := applyDeathTx(ctx, tx, victim, deathTxInput{
		KillerID: killerID,
		Reason:   death.ReasonPvP,
		Now:      now,
		Penalty:  input.Penalty,
		Curve:    input.Curve,
	})
	if err != nil {
		return storage.KillOutcome{}, err
	}

	if err := tx.Commit(); err != nil {
		return storage.KillOutcome{}, fmt.Errorf("commit: %w", err)
	}

	return storage.KillOutcome{
		Decision:          decision,
		Kill:              kill,
		PreviousAlignment: killer.Alignment,
		KillerAlignment:   newAlignment,
		VictimDeath:       victimDeath,
	}, nil
}

// recentKillTimesTx loads the killer's kill timestamps far enough back to
// cover both the cooldown and the rolling-window checks.
func recentKillTimesTx(ctx context.Context, tx *sql.Tx, killerID string, now time.Time, policy pk.Config) ([]time.Time, error) {
	lookback := policy.Window
	if policy.Cooldown > lookback {
		lookback = policy.Cooldown
	}
	cutoff := now.Add(-lookback)

	rows, err := tx.QueryContext(
		ctx,
		`SELECT timestamp
		   FROM pk_kill_log
		  WHERE killer_id = ? AND timestamp > ?
		  ORDER BY timestamp DESC`,
		killerID, toMillis(cutoff),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kills []time.Time
	for rows.Next() {
		var millis int64
		if err := rows.Scan(&millis); err != nil {
			return nil, err
		}
		kills = append(kills, fromMillis(millis))
	}
	return kills, rows.Err()
}

func getCharacterTx(ctx context.Context, tx *sql.Tx, characterID string) (storage.Character, error) {
	row := tx.QueryRowContext(
		ctx,
		`SELECT `+characterColumns+`
		   FROM characters
		  WHERE id = ?`,
		characterID,
	)
	return scanCharacter(row)
}

func characterNotFound(characterID string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		"character not found",
		map[string]string{"character_id": characterID},
	)
}
