// Package event defines the append-only domain event journal and its
// emitter. Events record what happened after state mutations commit; they
// are never load-bearing for the mutations themselves.
package event

import "time"

// Type identifies a domain event.
type Type string

const (
	TypePvpKill          Type = "pvp.kill"
	TypeCharacterDeath   Type = "character.death"
	TypeCharacterRespawn Type = "character.respawn"
	TypeAlignmentChanged Type = "character.alignment_changed"
	TypeXPLost           Type = "character.xp_lost"
)

// ActorType classifies who caused an event.
type ActorType string

const (
	ActorTypeSystem    ActorType = "system"
	ActorTypeCharacter ActorType = "character"
)

// Event is one journal record.
type Event struct {
	ID          string
	Timestamp   time.Time
	Type        Type
	ActorType   ActorType
	ActorID     string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
}

// PvpKillPayload describes a committed player kill.
type PvpKillPayload struct {
	KillID         string `json:"kill_id"`
	KillerID       string `json:"killer_id"`
	VictimID       string `json:"victim_id"`
	ZoneID         string `json:"zone_id"`
	AlignmentDelta int    `json:"alignment_delta"`
}

// CharacterDeathPayload describes a character death and its penalty.
type CharacterDeathPayload struct {
	CharacterID string `json:"character_id"`
	KillerID    string `json:"killer_id,omitempty"`
	Reason      string `json:"reason"`
	GoldLost    int64  `json:"gold_lost"`
	XPLost      int64  `json:"xp_lost"`
}

// CharacterRespawnPayload describes a respawn.
type CharacterRespawnPayload struct {
	CharacterID   string    `json:"character_id"`
	Location      string    `json:"location"`
	SicknessUntil time.Time `json:"sickness_until"`
}

// AlignmentChangedPayload describes an alignment change.
type AlignmentChangedPayload struct {
	CharacterID string `json:"character_id"`
	Previous    int    `json:"previous"`
	Current     int    `json:"current"`
}

// XPLostPayload describes an experience deduction.
type XPLostPayload struct {
	CharacterID string `json:"character_id"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason"`
}
