package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/platform/requestctx"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

type killRequest struct {
	VictimID string `json:"victim_id"`
	ZoneID   string `json:"zone_id"`
}

type killResponse struct {
	KillID            string        `json:"kill_id"`
	KillerID          string        `json:"killer_id"`
	VictimID          string        `json:"victim_id"`
	ZoneID            string        `json:"zone_id,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
	PreviousAlignment int           `json:"previous_alignment"`
	KillerAlignment   int           `json:"killer_alignment"`
	AlignmentDelta    int           `json:"alignment_delta"`
	TaggedUntil       *time.Time    `json:"tagged_until,omitempty"`
	VictimDeath       deathResponse `json:"victim_death"`
}

type deathResponse struct {
	CharacterID string    `json:"character_id"`
	GoldLost    int64     `json:"gold_lost"`
	XPLost      int64     `json:"xp_lost"`
	Experience  int64     `json:"experience"`
	Gold        int64     `json:"gold"`
	DiedAt      time.Time `json:"died_at"`
}

func (h *Handler) handleKill(w http.ResponseWriter, r *http.Request) {
	killerID := requestctx.CharacterIDFromContext(r.Context())
	if killerID == "" {
		writeError(w, h.logger, apperrors.New(apperrors.CodeUnauthenticated, "token has no acting character"))
		return
	}

	var req killRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperrors.New(apperrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	result, err := h.pvp.RecordKill(r.Context(), killerID, req.VictimID, req.ZoneID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := killResponse{
		KillID:            result.Kill.ID,
		KillerID:          result.Kill.KillerID,
		VictimID:          result.Kill.VictimID,
		ZoneID:            result.Kill.ZoneID,
		Timestamp:         result.Kill.Timestamp,
		PreviousAlignment: result.PreviousAlignment,
		KillerAlignment:   result.KillerAlignment,
		AlignmentDelta:    result.AlignmentDelta,
		VictimDeath:       newDeathResponse(result.VictimDeath),
	}
	if !result.TaggedUntil.IsZero() {
		resp.TaggedUntil = &result.TaggedUntil
	}
	writeJSON(w, http.StatusOK, resp)
}

func newDeathResponse(outcome storage.DeathOutcome) deathResponse {
	return deathResponse{
		CharacterID: outcome.CharacterID,
		GoldLost:    outcome.GoldLost,
		XPLost:      outcome.XPLost,
		Experience:  outcome.Experience,
		Gold:        outcome.Gold,
		DiedAt:      outcome.DiedAt,
	}
}

type cooldownResponse struct {
	CharacterID       string     `json:"character_id"`
	OnCooldown        bool       `json:"on_cooldown"`
	RetryAfterSeconds int64      `json:"retry_after_seconds,omitempty"`
	TaggedUntil       *time.Time `json:"tagged_until,omitempty"`
	LastKillAt        *time.Time `json:"last_kill_at,omitempty"`
}

func (h *Handler) handleCooldown(w http.ResponseWriter, r *http.Request) {
	status, err := h.pvp.CheckCooldown(r.Context(), r.PathValue("characterId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	resp := cooldownResponse{
		CharacterID:       status.CharacterID,
		OnCooldown:        status.OnCooldown,
		RetryAfterSeconds: status.RetryAfterSeconds,
	}
	if !status.TaggedUntil.IsZero() {
		resp.TaggedUntil = &status.TaggedUntil
	}
	if !status.LastKillAt.IsZero() {
		resp.LastKillAt = &status.LastKillAt
	}
	writeJSON(w, http.StatusOK, resp)
}

type killRecordResponse struct {
	KillID    string    `json:"kill_id"`
	KillerID  string    `json:"killer_id"`
	VictimID  string    `json:"victim_id"`
	ZoneID    string    `json:"zone_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type killHistoryResponse struct {
	Kills         []killRecordResponse `json:"kills"`
	NextPageToken string               `json:"next_page_token,omitempty"`
}

func (h *Handler) handleKillHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize := 0
	if raw := query.Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, apperrors.New(apperrors.CodeInvalidArgument, "invalid page_size"))
			return
		}
		pageSize = parsed
	}

	page, err := h.pvp.KillHistory(r.Context(), r.PathValue("characterId"), pageSize, query.Get("page_token"), query.Get("filter"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := killHistoryResponse{
		Kills:         make([]killRecordResponse, 0, len(page.Kills)),
		NextPageToken: page.NextPageToken,
	}
	for _, kill := range page.Kills {
		resp.Kills = append(resp.Kills, newKillRecordResponse(kill))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRecentKills(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, apperrors.New(apperrors.CodeInvalidArgument, "invalid limit"))
			return
		}
		limit = parsed
	}

	kills, err := h.pvp.RecentKills(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := make([]killRecordResponse, 0, len(kills))
	for _, kill := range kills {
		resp = append(resp, newKillRecordResponse(kill))
	}
	writeJSON(w, http.StatusOK, map[string][]killRecordResponse{"kills": resp})
}

func newKillRecordResponse(kill storage.KillRecord) killRecordResponse {
	return killRecordResponse{
		KillID:    kill.ID,
		KillerID:  kill.KillerID,
		VictimID:  kill.VictimID,
		ZoneID:    kill.ZoneID,
		Timestamp: kill.Timestamp,
	}
}
