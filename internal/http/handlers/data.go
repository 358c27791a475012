package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	middlewarex "consolenav/internal/http/middleware"
	"consolenav/internal/services/data"
	"consolenav/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// ListApps serves GET /apps?page=&limit=.
func ListApps(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		req, err := parseListRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_param", err.Error())
			return
		}

		response, err := dataService.ListApps(r.Context(), workspaceID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, response)
	}
}

// ListDatasets serves GET /datasets?page=&limit=.
func ListDatasets(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		req, err := parseListRequest(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_param", err.Error())
			return
		}

		response, err := dataService.ListDatasets(r.Context(), workspaceID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, response)
	}
}

func GetApp(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		a, err := dataService.GetApp(r.Context(), workspaceID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, a)
	}
}

func GetDataset(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		d, err := dataService.GetDataset(r.Context(), workspaceID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, d)
	}
}

func CreateApp(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		var req data.CreateAppRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON")
			return
		}
		a, err := dataService.CreateApp(r.Context(), workspaceID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, a)
	}
}

func CreateDataset(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := middlewarex.WorkspaceID(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "workspace not found")
			return
		}
		var req data.CreateDatasetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON")
			return
		}
		d, err := dataService.CreateDataset(r.Context(), workspaceID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, d)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *data.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, r, http.StatusBadRequest, "invalid_param", vErr.Message)
	case errors.Is(err, repositories.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "resource not found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("data service failed")
		writeError(w, r, http.StatusInternalServerError, "internal_server_error", "internal error")
	}
}

// parseListRequest parses page/limit. Absent values take service defaults;
// non-numeric values and pages past the addressable offset are rejected.
func parseListRequest(r *http.Request) (data.ListRequest, error) {
	req := data.ListRequest{}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, errors.New("page must be a positive integer")
		}
		req.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, errors.New("limit must be a positive integer")
		}
		req.Limit = n
	}

	// the row offset must stay representable
	eff := req
	eff.Validate()
	if eff.Page > math.MaxInt/eff.Limit {
		return req, errors.New("page is out of range")
	}
	return req, nil
}
