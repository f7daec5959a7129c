package combat

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/death"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/event"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/xp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

type fakeStore struct {
	characters map[string]storage.Character
	kills      map[string]int64
	deaths     map[string]int64

	deathOutcome storage.DeathOutcome
	deathErr     error
	deathInput   storage.ApplyDeathInput

	respawned    storage.Character
	respawnErr   error
	respawnInput storage.RespawnInput
}

func (f *fakeStore) ApplyDeath(ctx context.Context, input storage.ApplyDeathInput) (storage.DeathOutcome, error) {
	f.deathInput = input
	return f.deathOutcome, f.deathErr
}

func (f *fakeStore) Respawn(ctx context.Context, input storage.RespawnInput) (storage.Character, error) {
	f.respawnInput = input
	return f.respawned, f.respawnErr
}

func (f *fakeStore) CreateCharacter(ctx context.Context, character storage.Character) (storage.Character, error) {
	return character, nil
}

func (f *fakeStore) GetCharacter(ctx context.Context, characterID string) (storage.Character, error) {
	character, ok := f.characters[characterID]
	if !ok {
		return storage.Character{}, storage.ErrNotFound
	}
	return character, nil
}

func (f *fakeStore) ListKillsByKiller(ctx context.Context, killerID string, pageSize int, pageToken, filter string) (storage.KillPage, error) {
	return storage.KillPage{}, nil
}

func (f *fakeStore) ListRecentKills(ctx context.Context, limit int) ([]storage.KillRecord, error) {
	return nil, nil
}

func (f *fakeStore) LatestKillByKiller(ctx context.Context, killerID string) (storage.KillRecord, error) {
	return storage.KillRecord{}, storage.ErrNotFound
}

func (f *fakeStore) CountKillsByKiller(ctx context.Context, killerID string) (int64, error) {
	return f.kills[killerID], nil
}

func (f *fakeStore) CountDeathsByVictim(ctx context.Context, victimID string) (int64, error) {
	return f.deaths[victimID], nil
}

type fakeEventStore struct {
	events []event.Event
}

func (f *fakeEventStore) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	f.events = append(f.events, evt)
	return evt, nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, events *fakeEventStore) *Service {
	penalty := death.PenaltyConfig{
		XPLossPercent:         20,
		GoldLossPercent:       100,
		SicknessDuration:      5 * time.Minute,
		SicknessDebuffPercent: 25,
	}
	svc := NewService(store, event.NewEmitter(events), penalty, xp.Curve{BaseXP: 1000, Scaling: 1.2, MaxLevel: 1000}, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestProcessDeath(t *testing.T) {
	t.Parallel()
	store := &fakeStore{
		deathOutcome: storage.DeathOutcome{
			CharacterID: "c1", GoldLost: 300, XPLost: 240, DiedAt: testNow,
		},
	}
	events := &fakeEventStore{}
	svc := newTestService(store, events)

	outcome, err := svc.ProcessDeath(context.Background(), "c1", "", "pve")
	if err != nil {
		t.Fatalf("ProcessDeath() error = %v", err)
	}
	if outcome.GoldLost != 300 || outcome.XPLost != 240 {
		t.Errorf("outcome = %+v, want 300 gold and 240 xp lost", outcome)
	}
	if store.deathInput.Reason != death.ReasonPvE {
		t.Errorf("Reason = %q, want pve", store.deathInput.Reason)
	}
	if len(events.events) != 2 {
		t.Fatalf("emitted %d events, want 2", len(events.events))
	}
	if events.events[0].Type != event.TypeCharacterDeath || events.events[1].Type != event.TypeXPLost {
		t.Errorf("event types = [%s %s], want death then xp_lost",
			events.events[0].Type, events.events[1].Type)
	}
	// A killerless death is attributed to the system.
	if events.events[0].ActorType != event.ActorTypeSystem {
		t.Errorf("ActorType = %s, want system", events.events[0].ActorType)
	}
}

func TestProcessDeathInvalidReason(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeStore{}, &fakeEventStore{})

	_, err := svc.ProcessDeath(context.Background(), "c1", "", "boredom")
	if !errors.Is(err, apperrors.New(apperrors.CodeInvalidDeathReason, "")) {
		t.Fatalf("ProcessDeath() error = %v, want INVALID_DEATH_REASON", err)
	}
}

func TestRespawn(t *testing.T) {
	t.Parallel()
	sicknessUntil := testNow.Add(5 * time.Minute)
	store := &fakeStore{
		respawned: storage.Character{ID: "c1", Alive: true, SicknessUntil: &sicknessUntil},
	}
	events := &fakeEventStore{}
	svc := newTestService(store, events)

	character, err := svc.Respawn(context.Background(), "c1", "")
	if err != nil {
		t.Fatalf("Respawn() error = %v", err)
	}
	if !character.Alive {
		t.Error("Alive = false, want true")
	}
	// An empty location defaults to the graveyard.
	if store.respawnInput.Location != death.LocationGraveyard {
		t.Errorf("Location = %q, want graveyard", store.respawnInput.Location)
	}
	if store.respawnInput.SicknessDuration != 5*time.Minute {
		t.Errorf("SicknessDuration = %v, want 5m", store.respawnInput.SicknessDuration)
	}
	if len(events.events) != 1 || events.events[0].Type != event.TypeCharacterRespawn {
		t.Fatalf("events = %+v, want one character.respawn", events.events)
	}
}

func TestRespawnInvalidLocation(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeStore{}, &fakeEventStore{})

	_, err := svc.Respawn(context.Background(), "c1", "tavern")
	if !errors.Is(err, apperrors.New(apperrors.CodeInvalidRespawnLocation, "")) {
		t.Fatalf("Respawn() error = %v, want INVALID_RESPAWN_LOCATION", err)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()
	sicknessUntil := testNow.Add(90 * time.Second)
	store := &fakeStore{
		characters: map[string]storage.Character{
			"c1": {
				ID:            "c1",
				Experience:    5000,
				Gold:          1500,
				Alignment:     500,
				Alive:         true,
				SicknessUntil: &sicknessUntil,
			},
		},
		kills:  map[string]int64{"c1": 12},
		deaths: map[string]int64{"c1": 3},
	}
	svc := newTestService(store, &fakeEventStore{})

	status, err := svc.Status(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Level != 4 {
		t.Errorf("Level = %d, want 4", status.Level)
	}
	if status.ExperienceIntoLevel != 1360 || status.ExperienceRequiredNext != 1728 {
		t.Errorf("progress = %d/%d, want 1360/1728",
			status.ExperienceIntoLevel, status.ExperienceRequiredNext)
	}
	if status.AlignmentLabel != "Good" {
		t.Errorf("AlignmentLabel = %q, want Good", status.AlignmentLabel)
	}
	if status.Kills != 12 || status.Deaths != 3 {
		t.Errorf("counts = (%d, %d), want (12, 3)", status.Kills, status.Deaths)
	}
	if status.SicknessRemainingSecs != 90 || status.SicknessDebuffPercent != 25 {
		t.Errorf("sickness = (%ds, %d%%), want (90s, 25%%)",
			status.SicknessRemainingSecs, status.SicknessDebuffPercent)
	}
}

func TestStatusUnknownCharacter(t *testing.T) {
	t.Parallel()
	svc := newTestService(&fakeStore{}, &fakeEventStore{})

	_, err := svc.Status(context.Background(), "missing")
	if !errors.Is(err, apperrors.New(apperrors.CodeNotFound, "")) {
		t.Fatalf("Status() error = %v, want NOT_FOUND", err)
	}
}
