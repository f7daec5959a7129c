package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
)

type deathRequest struct {
	KillerID string `json:"killer_id"`
	Reason   string `json:"reason"`
}

func (h *Handler) handleDeath(w http.ResponseWriter, r *http.Request) {
	var req deathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, apperrors.New(apperrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	outcome, err := h.combat.ProcessDeath(r.Context(), r.PathValue("characterId"), req.KillerID, req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeathResponse(outcome))
}

type respawnRequest struct {
	Location string `json:"location"`
}

type respawnResponse struct {
	CharacterID   string     `json:"character_id"`
	Alive         bool       `json:"alive"`
	SicknessUntil *time.Time `json:"sickness_until,omitempty"`
}

func (h *Handler) handleRespawn(w http.ResponseWriter, r *http.Request) {
	var req respawnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, h.logger, apperrors.New(apperrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	character, err := h.combat.Respawn(r.Context(), r.PathValue("characterId"), req.Location)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, respawnResponse{
		CharacterID:   character.ID,
		Alive:         character.Alive,
		SicknessUntil: character.SicknessUntil,
	})
}

type statusResponse struct {
	CharacterID            string     `json:"character_id"`
	Alive                  bool       `json:"alive"`
	DiedAt                 *time.Time `json:"died_at,omitempty"`
	SicknessRemainingSecs  int64      `json:"sickness_remaining_seconds,omitempty"`
	SicknessDebuffPercent  int        `json:"sickness_debuff_percent,omitempty"`
	Level                  int        `json:"level"`
	Experience             int64      `json:"experience"`
	ExperienceIntoLevel    int64      `json:"experience_into_level"`
	ExperienceRequiredNext int64      `json:"experience_required_next"`
	Gold                   int64      `json:"gold"`
	Alignment              int        `json:"alignment"`
	AlignmentLabel         string     `json:"alignment_label"`
	Kills                  int64      `json:"kills"`
	Deaths                 int64      `json:"deaths"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.combat.Status(r.Context(), r.PathValue("characterId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		CharacterID:            status.CharacterID,
		Alive:                  status.Alive,
		DiedAt:                 status.DiedAt,
		SicknessRemainingSecs:  status.SicknessRemainingSecs,
		SicknessDebuffPercent:  status.SicknessDebuffPercent,
		Level:                  status.Level,
		Experience:             status.Experience,
		ExperienceIntoLevel:    status.ExperienceIntoLevel,
		ExperienceRequiredNext: status.ExperienceRequiredNext,
		Gold:                   status.Gold,
		Alignment:              status.Alignment,
		AlignmentLabel:         status.AlignmentLabel,
		Kills:                  status.Kills,
		Deaths:                 status.Deaths,
	})
}
