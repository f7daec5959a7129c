package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

// ListLedgerEntries returns the newest experience changes for one character.
func (s *Store) ListLedgerEntries(ctx context.Context, characterID string, limit int) ([]storage.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return nil, fmt.Errorf("character id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, character_id, change, reason, timestamp
		   FROM xp_ledger
		  WHERE character_id = ?
		  ORDER BY timestamp DESC, id DESC
		  LIMIT ?`,
		characterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]storage.LedgerEntry, 0, limit)
	for rows.Next() {
		var entry storage.LedgerEntry
		var millis int64
		if err := rows.Scan(&entry.ID, &entry.CharacterID, &entry.Change, &entry.Reason, &millis); err != nil {
			return nil, fmt.Errorf("list ledger entries: %w", err)
		}
		entry.Timestamp = fromMillis(millis)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return entries, nil
}

// ListTransactions returns the newest gold movements for one character.
func (s *Store) ListTransactions(ctx context.Context, characterID string, limit int) ([]storage.GoldTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	characterID = strings.TrimSpace(characterID)
	if characterID == "" {
		return nil, fmt.Errorf("character id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, character_id, amount, type, description, timestamp
		   FROM gold_transactions
		  WHERE character_id = ?
		  ORDER BY timestamp DESC, id DESC
		  LIMIT ?`,
		characterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]storage.GoldTransaction, 0, limit)
	for rows.Next() {
		var txn storage.GoldTransaction
		var txnType string
		var millis int64
		if err := rows.Scan(&txn.ID, &txn.CharacterID, &txn.Amount, &txnType, &txn.Description, &millis); err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		txn.Type = storage.TransactionType(txnType)
		txn.Timestamp = fromMillis(millis)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}
