package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type fakeEventStore struct {
	appended []Event
	err      error
}

func (f *fakeEventStore) AppendEvent(ctx context.Context, evt Event) (Event, error) {
	if f.err != nil {
		return Event{}, f.err
	}
	f.appended = append(f.appended, evt)
	return evt, nil
}

func TestEmitPvpKill(t *testing.T) {
	t.Parallel()

	store := &fakeEventStore{}
	emitter := NewEmitter(store)
	emitter.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	evt, err := emitter.EmitPvpKill(context.Background(), PvpKillPayload{
		KillID:         "kill-1",
		KillerID:       "char-1",
		VictimID:       "char-2",
		ZoneID:         "pvp_arena",
		AlignmentDelta: -10,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if evt.Type != TypePvpKill {
		t.Fatalf("type = %q, want %q", evt.Type, TypePvpKill)
	}
	if evt.ActorType != ActorTypeCharacter || evt.ActorID != "char-1" {
		t.Fatalf("actor = %s/%s, want character/char-1", evt.ActorType, evt.ActorID)
	}
	if evt.EntityID != "kill-1" {
		t.Fatalf("entity id = %q, want kill-1", evt.EntityID)
	}

	var payload PvpKillPayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.VictimID != "char-2" {
		t.Fatalf("victim = %q, want char-2", payload.VictimID)
	}
}

func TestEmitCharacterDeathActorType(t *testing.T) {
	t.Parallel()

	store := &fakeEventStore{}
	emitter := NewEmitter(store)

	evt, err := emitter.EmitCharacterDeath(context.Background(), CharacterDeathPayload{
		CharacterID: "char-2",
		Reason:      "environmental",
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if evt.ActorType != ActorTypeSystem {
		t.Fatalf("actor type = %q, want system for killerless death", evt.ActorType)
	}

	evt, err = emitter.EmitCharacterDeath(context.Background(), CharacterDeathPayload{
		CharacterID: "char-2",
		KillerID:    "char-1",
		Reason:      "pvp",
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if evt.ActorType != ActorTypeCharacter {
		t.Fatalf("actor type = %q, want character for pvp death", evt.ActorType)
	}
}

func TestEmitWithoutStore(t *testing.T) {
	t.Parallel()

	var emitter *Emitter
	if _, err := emitter.Emit(context.Background(), EmitInput{Type: TypePvpKill}); err == nil {
		t.Fatal("expected error for nil emitter")
	}
}
