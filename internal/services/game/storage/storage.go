// Package storage defines persistence contracts for game service state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pk"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Character stores the live state for one character.
type Character struct {
	ID            string
	AccountID     string
	Name          string
	Experience    int64
	Gold          int64
	Alignment     int
	Alive         bool
	DiedAt        *time.Time
	SicknessUntil *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// KillRecord stores one append-only player-kill entry.
type KillRecord struct {
	ID        string
	KillerID  string
	VictimID  string
	ZoneID    string
	Timestamp time.Time
}

// KillPage stores one page of kill records, newest first.
type KillPage struct {
	Kills         []KillRecord
	NextPageToken string
}

// LedgerEntry stores one append-only experience change.
type LedgerEntry struct {
	ID          string
	CharacterID string
	Change      int64
	Reason      string
	Timestamp   time.Time
}

// TransactionType classifies a gold transaction.
type TransactionType string

const (
	TransactionDeposit      TransactionType = "DEPOSIT"
	TransactionWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionInterest     TransactionType = "INTEREST"
	TransactionFee          TransactionType = "FEE"
	TransactionDeathPenalty TransactionType = "DEATH_PENALTY"
)

// GoldTransaction stores one append-only gold movement.
type GoldTransaction struct {
	ID          string
	CharacterID string
	Amount      int64
	Type        TransactionType
	Description string
	Timestamp   time.Time
}

// CharacterStore persists character state.
type CharacterStore interface {
	CreateCharacter(ctx context.Context, character Character) (Character, error)
	GetCharacter(ctx context.Context, characterID string) (Character, error)
}

// KillLogStore reads the append-only kill log.
type KillLogStore interface {
	// ListKillsByKiller returns one newest-first page of a killer's kills.
	// filter is an optional AIP-160 expression over victim_id, zone_id, and ts.
	ListKillsByKiller(ctx context.Context, killerID string, pageSize int, pageToken, filter string) (KillPage, error)
	// ListRecentKills returns the newest kills server-wide.
	ListRecentKills(ctx context.Context, limit int) ([]KillRecord, error)
	// LatestKillByKiller returns a killer's most recent kill.
	LatestKillByKiller(ctx context.Context, killerID string) (KillRecord, error)
	// CountKillsByKiller returns a character's lifetime kill count.
	CountKillsByKiller(ctx context.Context, killerID string) (int64, error)
	// CountDeathsByVictim returns how often a character has been killed.
	CountDeathsByVictim(ctx context.Context, victimID string) (int64, error)
}

// RecordKillInput carries everything a store needs to run the kill workflow
// atomically. The policy and penalty values are supplied by the caller so
// the store stays free of configuration.
type RecordKillInput struct {
	KillerID string
	VictimID string
	ZoneID   string
	Now      time.Time
	Policy   pk.Config
	Penalty  death.PenaltyConfig
	Curve    xp.Curve
}

// DeathOutcome reports the applied penalty for one death.
type DeathOutcome struct {
	CharacterID string
	GoldLost    int64
	XPLost      int64
	// Experience and Gold hold the character's values after the penalty.
	Experience int64
	Gold       int64
	DiedAt     time.Time
}

// KillOutcome reports one evaluated kill attempt. When the decision denies
// the attempt nothing was written.
type KillOutcome struct {
	Decision          pk.Decision
	Kill              KillRecord
	PreviousAlignment int
	KillerAlignment   int
	VictimDeath       DeathOutcome
}

// PvpStore runs the kill workflow in a single transaction.
type PvpStore interface {
	RecordKill(ctx context.Context, input RecordKillInput) (KillOutcome, error)
}

// ApplyDeathInput carries one standalone death to apply.
type ApplyDeathInput struct {
	CharacterID string
	KillerID    string
	Reason      death.Reason
	Now         time.Time
	Penalty     death.PenaltyConfig
	Curve       xp.Curve
}

// RespawnInput carries one respawn to apply.
type RespawnInput struct {
	CharacterID      string
	Location         death.RespawnLocation
	Now              time.Time
	SicknessDuration time.Duration
}

// CombatStore applies deaths and respawns atomically.
type CombatStore interface {
	ApplyDeath(ctx context.Context, input ApplyDeathInput) (DeathOutcome, error)
	Respawn(ctx context.Context, input RespawnInput) (Character, error)
}

// EventStore persists the append-only event journal.
type EventStore interface {
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	ListEventsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]event.Event, error)
}

// LedgerStore reads the append-only experience and gold records.
type LedgerStore interface {
	ListLedgerEntries(ctx context.Context, characterID string, limit int) ([]LedgerEntry, error)
	ListTransactions(ctx context.Context, characterID string, limit int) ([]GoldTransaction, error)
}

// Store aggregates every persistence contract of the game service.
type Store interface {
	CharacterStore
	KillLogStore
	PvpStore
	CombatStore
	EventStore
	LedgerStore
	Close() error
}
