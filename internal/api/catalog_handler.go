package api

import (
	"net/http"

	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/domain"
)

// Options handles GET /api/options.
func Options(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, OptionsResponse{
		Languages:       domain.Languages(),
		Tones:           domain.Tones(),
		DefaultLanguage: domain.DefaultLanguage,
		DefaultTone:     domain.DefaultTone,
	})
}

// Plans handles GET /api/plans.
func Plans(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, PlansResponse{Plans: domain.Plans()})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
