package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"consolenav/internal/services/workspace"

	"github.com/rs/zerolog/hlog"
)

// OnboardWorkspace handles workspace creation; the admin guard is applied by
// the router.
func OnboardWorkspace(workspaceService *workspace.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.OnboardingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON")
			return
		}

		response, err := workspaceService.Onboard(r.Context(), req)
		if err != nil {
			var vErr *workspace.ValidationError
			if errors.As(err, &vErr) {
				writeError(w, r, http.StatusBadRequest, "invalid_param", vErr.Error())
				return
			}
			hlog.FromRequest(r).Error().Err(err).Msg("workspace onboarding failed")
			writeError(w, r, http.StatusInternalServerError, "internal_server_error", "onboarding failed")
			return
		}
		writeJSON(w, r, http.StatusCreated, response)
	}
}
