// Package httpapi exposes the game service over a JSON HTTP API.
package httpapi

import (
	"context"
	"log"
	"net/http"

	"github.com/aeturnis/aeturnis-online/internal/services/game/auth"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/combat"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/pvp"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

// PvpService is the pvp surface the handler depends on.
type PvpService interface {
	RecordKill(ctx context.Context, killerID, victimID, zoneID string) (pvp.KillResult, error)
	CheckCooldown(ctx context.Context, characterID string) (pvp.CooldownStatus, error)
	KillHistory(ctx context.Context, characterID string, pageSize int, pageToken, filter string) (storage.KillPage, error)
	RecentKills(ctx context.Context, limit int) ([]storage.KillRecord, error)
}

// CombatService is the combat surface the handler depends on.
type CombatService interface {
	ProcessDeath(ctx context.Context, characterID, killerID, reason string) (storage.DeathOutcome, error)
	Respawn(ctx context.Context, characterID, location string) (storage.Character, error)
	Status(ctx context.Context, characterID string) (combat.Status, error)
}

// Handler serves the game JSON API.
type Handler struct {
	pvp        PvpService
	combat     CombatService
	store      storage.CharacterStore
	authConfig auth.Config
	logger     *log.Logger
}

// NewHandler builds the API handler with all routes mounted.
func NewHandler(pvpSvc PvpService, combatSvc CombatService, store storage.CharacterStore, authConfig auth.Config, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{
		pvp:        pvpSvc,
		combat:     combatSvc,
		store:      store,
		authConfig: authConfig,
		logger:     logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/pk/kill", h.route("pk.kill", h.handleKill))
	mux.HandleFunc("GET /api/pk/cooldown/{characterId}", h.route("pk.cooldown", h.handleCooldown))
	mux.HandleFunc("GET /api/pk/history/{characterId}", h.route("pk.history", h.handleKillHistory))
	mux.HandleFunc("GET /api/pk/recent", h.route("pk.recent", h.handleRecentKills))
	mux.HandleFunc("POST /api/combat/death/{characterId}", h.route("combat.death", h.handleDeath))
	mux.HandleFunc("POST /api/combat/respawn/{characterId}", h.route("combat.respawn", h.handleRespawn))
	mux.HandleFunc("GET /api/combat/status/{characterId}", h.route("combat.status", h.handleStatus))
	mux.HandleFunc("GET /api/characters/{characterId}", h.route("characters.get", h.handleGetCharacter))
	return mux
}

// route applies the standard middleware chain to one endpoint.
func (h *Handler) route(name string, next http.HandlerFunc) http.HandlerFunc {
	return withTracing(name, h.withAuth(next))
}
