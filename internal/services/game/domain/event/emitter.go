package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store defines the interface for persisting events.
type Store interface {
	AppendEvent(ctx context.Context, evt Event) (Event, error)
}

// Emitter provides event emission capabilities for state mutations.
type Emitter struct {
	store Store
	now   func() time.Time
}

// NewEmitter creates a new event emitter.
func NewEmitter(store Store) *Emitter {
	return &Emitter{
		store: store,
		now:   time.Now,
	}
}

// EmitInput describes the input for emitting an event.
type EmitInput struct {
	Type       Type
	ActorType  ActorType
	ActorID    string
	EntityType string
	EntityID   string
	Payload    any
}

// Emit appends an event to the journal.
func (e *Emitter) Emit(ctx context.Context, input EmitInput) (Event, error) {
	if e == nil || e.store == nil {
		return Event{}, fmt.Errorf("event store is not configured")
	}

	payloadJSON, err := json.Marshal(input.Payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}

	evt := Event{
		Timestamp:   e.now().UTC(),
		Type:        input.Type,
		ActorType:   input.ActorType,
		ActorID:     input.ActorID,
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		PayloadJSON: payloadJSON,
	}

	return e.store.AppendEvent(ctx, evt)
}

// EmitPvpKill emits a pvp.kill event.
func (e *Emitter) EmitPvpKill(ctx context.Context, payload PvpKillPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypePvpKill,
		ActorType:  ActorTypeCharacter,
		ActorID:    payload.KillerID,
		EntityType: "kill",
		EntityID:   payload.KillID,
		Payload:    payload,
	})
}

// EmitCharacterDeath emits a character.death event.
func (e *Emitter) EmitCharacterDeath(ctx context.Context, payload CharacterDeathPayload) (Event, error) {
	actorType := ActorTypeSystem
	if payload.KillerID != "" {
		actorType = ActorTypeCharacter
	}
	return e.Emit(ctx, EmitInput{
		Type:       TypeCharacterDeath,
		ActorType:  actorType,
		ActorID:    payload.KillerID,
		EntityType: "character",
		EntityID:   payload.CharacterID,
		Payload:    payload,
	})
}

// EmitCharacterRespawn emits a character.respawn event.
func (e *Emitter) EmitCharacterRespawn(ctx context.Context, payload CharacterRespawnPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeCharacterRespawn,
		ActorType:  ActorTypeCharacter,
		ActorID:    payload.CharacterID,
		EntityType: "character",
		EntityID:   payload.CharacterID,
		Payload:    payload,
	})
}

// EmitAlignmentChanged emits a character.alignment_changed event.
func (e *Emitter) EmitAlignmentChanged(ctx context.Context, payload AlignmentChangedPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeAlignmentChanged,
		ActorType:  ActorTypeSystem,
		EntityType: "character",
		EntityID:   payload.CharacterID,
		Payload:    payload,
	})
}

// EmitXPLost emits a character.xp_lost event.
func (e *Emitter) EmitXPLost(ctx context.Context, payload XPLostPayload) (Event, error) {
	return e.Emit(ctx, EmitInput{
		Type:       TypeXPLost,
		ActorType:  ActorTypeSystem,
		EntityType: "character",
		EntityID:   payload.CharacterID,
		Payload:    payload,
	})
}
