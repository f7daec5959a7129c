package httpapi

import (
	"errors"
	"net/http"
	"time"

	apperrors "github.com/aeturnis/aeturnis-online/internal/platform/errors"
	"github.com/aeturnis/aeturnis-online/internal/services/game/domain/alignment"
	"github.com/aeturnis/aeturnis-online/internal/services/game/storage"
)

type characterResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Experience     int64      `json:"experience"`
	Gold           int64      `json:"gold"`
	Alignment      int        `json:"alignment"`
	AlignmentLabel string     `json:"alignment_label"`
	Alive          bool       `json:"alive"`
	DiedAt         *time.Time `json:"died_at,omitempty"`
	SicknessUntil  *time.Time `json:"sickness_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	characterID := r.PathValue("characterId")
	character, err := h.store.GetCharacter(r.Context(), characterID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"character not found",
				map[string]string{"character_id": characterID},
			)
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, characterResponse{
		ID:             character.ID,
		Name:           character.Name,
		Experience:     character.Experience,
		Gold:           character.Gold,
		Alignment:      character.Alignment,
		AlignmentLabel: alignment.Label(character.Alignment),
		Alive:          character.Alive,
		DiedAt:         character.DiedAt,
		SicknessUntil:  character.SicknessUntil,
		CreatedAt:      character.CreatedAt,
	})
}
