package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/core/filter"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

const killColumns = `id, killer_id, victim_id, zone_id, timestamp`

// ListKillsByKiller returns one newest-first page of a killer's kills.
// Pagination is keyset-based: the page token encodes the last returned
// row's timestamp and ID so pages stay stable while new kills arrive.
func (s *Store) ListKillsByKiller(ctx context.Context, killerID string, pageSize int, pageToken, filterStr string) (storage.KillPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.KillPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.KillPage{}, fmt.Errorf("storage is not configured")
	}
	killerID = strings.TrimSpace(killerID)
	if killerID == "" {
		return storage.KillPage{}, fmt.Errorf("killer id is required")
	}
	if pageSize <= 0 {
		return storage.KillPage{}, fmt.Errorf("page size must be positive")
	}

	query := `SELECT ` + killColumns + `
	   FROM pk_kill_log
	  WHERE killer_id = ?`
	args := []any{killerID}

	if pageToken != "" {
		tokenMillis, tokenID, err := decodePageToken(pageToken)
		if err != nil {
			return storage.KillPage{}, err
		}
		query += ` AND (timestamp < ? OR (timestamp = ? AND id < ?))`
		args = append(args, tokenMillis, tokenMillis, tokenID)
	}

	condition, err := filter.ParseKillFilter(filterStr)
	if err != nil {
		return storage.KillPage{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid filter", err)
	}
	if condition.Clause != "" {
		query += ` AND (` + condition.Clause + `)`
		args = append(args, condition.Params...)
	}

	// Probe one row past the page to learn whether another page exists.
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.KillPage{}, fmt.Errorf("list kills: %w", err)
	}
	defer rows.Close()

	kills, err := scanKills(rows, pageSize+1)
	if err != nil {
		return storage.KillPage{}, fmt.Errorf("list kills: %w", err)
	}

	page := storage.KillPage{Kills: kills}
	if len(kills) > pageSize {
		page.Kills = kills[:pageSize]
		last := page.Kills[pageSize-1]
		page.NextPageToken = encodePageToken(toMillis(last.Timestamp), last.ID)
	}
	return page, nil
}

// ListRecentKills returns the newest kills server-wide.
func (s *Store) ListRecentKills(ctx context.Context, limit int) ([]storage.KillRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+killColumns+`
		   FROM pk_kill_log
		  ORDER BY timestamp DESC, id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent kills: %w", err)
	}
	defer rows.Close()

	kills, err := scanKills(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent kills: %w", err)
	}
	return kills, nil
}

// LatestKillByKiller returns a killer's most recent kill.
func (s *Store) LatestKillByKiller(ctx context.Context, killerID string) (storage.KillRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.KillRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.KillRecord{}, fmt.Errorf("storage is not configured")
	}
	killerID = strings.TrimSpace(killerID)
	if killerID == "" {
		return storage.KillRecord{}, fmt.Errorf("killer id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+killColumns+`
		   FROM pk_kill_log
		  WHERE killer_id = ?
		  ORDER BY timestamp DESC, id DESC
		  LIMIT 1`,
		killerID,
	)
	kill, err := scanKill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.KillRecord{}, storage.ErrNotFound
		}
		return storage.KillRecord{}, fmt.Errorf("latest kill: %w", err)
	}
	return kill, nil
}

// CountKillsByKiller returns a character's lifetime kill count.
func (s *Store) CountKillsByKiller(ctx context.Context, killerID string) (int64, error) {
	return s.countKills(ctx, "killer_id", killerID)
}

// CountDeathsByVictim returns how often a character has been killed.
func (s *Store) CountDeathsByVictim(ctx context.Context, victimID string) (int64, error) {
	return s.countKills(ctx, "victim_id", victimID)
}

func (s *Store) countKills(ctx context.Context, column, characterID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return 0, fmt.Errorf("character id is required")
	}

	var count int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM pk_kill_log WHERE `+column+` = ?`,
		characterID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count kills: %w", err)
	}
	return count, nil
}

func encodePageToken(millis int64, killID string) string {
	return fmt.Sprintf("%d:%s", millis, killID)
}

func decodePageToken(token string) (int64, string, error) {
	sep := strings.IndexByte(token, ':')
	if sep <= 0 || sep == len(token)-1 {
		return 0, "", apperrors.New(apperrors.CodeInvalidArgument, "invalid page token")
	}
	var millis int64
	if _, err := fmt.Sscanf(token[:sep], "%d", &millis); err != nil {
		return 0, "", apperrors.New(apperrors.CodeInvalidArgument, "invalid page token")
	}
	return millis, token[sep+1:], nil
}

func scanKill(row rowScanner) (storage.KillRecord, error) {
	var kill storage.KillRecord
	var millis int64
	err := row.Scan(&kill.ID, &kill.KillerID, &kill.VictimID, &kill.ZoneID, &millis)
	if err != nil {
		return storage.KillRecord{}, err
	}
	kill.Timestamp = fromMillis(millis)
	return kill, nil
}

func scanKills(rows *sql.Rows, capacity int) ([]storage.KillRecord, error) {
	kills := make([]storage.KillRecord, 0, capacity)
	for rows.Next() {
		kill, err := scanKill(rows)
		if err != nil {
			return nil, err
		}
		kills = append(kills, kill)
	}
	return kills, rows.Err()
}
