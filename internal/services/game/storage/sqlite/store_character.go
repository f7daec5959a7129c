package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aeturnis/aeturnis-online/internal/platform/id"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

const characterColumns = `id, account_id, name, experience, gold, alignment,
	       alive, died_at, sickness_until, created_at, updated_at`

// CreateCharacter inserts one character record.
func (s *Store) CreateCharacter(ctx context.Context, character storage.Character) (storage.Character, error) {
	if err := ctx.Err(); err != nil {
		return storage.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Character{}, fmt.Errorf("storage is not configured")
	}
	character.AccountID = strings.TrimSpace(character.AccountID)
	character.Name = strings.TrimSpace(character.Name)
	if character.AccountID == "" {
		return storage.Character{}, fmt.Errorf("account id is required")
	}
	if character.Name == "" {
		return storage.Character{}, fmt.Errorf("name is required")
	}
	if character.ID == "" {
		newID, err := id.NewID()
		if err != nil {
			return storage.Character{}, fmt.Errorf("generate character id: %w", err)
		}
		character.ID = newID
	}
	now := time.Now().UTC()
	if character.CreatedAt.IsZero() {
		character.CreatedAt = now
	}
	if character.UpdatedAt.IsZero() {
		character.UpdatedAt = character.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO characters (
		   id, account_id, name, experience, gold, alignment,
		   alive, died_at, sickness_until, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		character.ID,
		character.AccountID,
		character.Name,
		character.Experience,
		character.Gold,
		character.Alignment,
		boolToInt(character.Alive),
		toMillisPtr(character.DiedAt),
		toMillisPtr(character.SicknessUntil),
		toMillis(character.CreatedAt),
		toMillis(character.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Character{}, storage.ErrAlreadyExists
		}
		return storage.Character{}, fmt.Errorf("create character: %w", err)
	}
	return character, nil
}

// GetCharacter returns one character by ID.
func (s *Store) GetCharacter(ctx context.Context, characterID string) (storage.Character, error) {
	if err := ctx.Err(); err != nil {
		return storage.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Character{}, fmt.Errorf("storage is not configured")
	}
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return storage.Character{}, fmt.Errorf("character id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+characterColumns+`
		   FROM characters
		  WHERE id = ?`,
		characterID,
	)
	character, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Character{}, storage.ErrNotFound
		}
		return storage.Character{}, fmt.Errorf("get character: %w", err)
	}
	return character, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (storage.Character, error) {
	var character storage.Character
	var alive int
	var diedAt, sicknessUntil sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(
		&character.ID,
		&character.AccountID,
		&character.Name,
		&character.Experience,
		&character.Gold,
		&character.Alignment,
		&alive,
		&diedAt,
		&sicknessUntil,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return storage.Character{}, err
	}
	character.Alive = alive != 0
	character.DiedAt = fromMillisPtr(diedAt)
	character.SicknessUntil = fromMillisPtr(sicknessUntil)
	character.CreatedAt = fromMillis(createdAt)
	character.UpdatedAt = fromMillis(updatedAt)
	return character, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
