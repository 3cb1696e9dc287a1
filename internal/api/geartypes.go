package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// GearTypesHandler handles gear category endpoints.
type GearTypesHandler struct {
	DB *sql.DB
}

type createGearTypeRequest struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

// List handles GET /api/geartypes.
func (h *GearTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListGearTypes(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list gear types")
		return
	}
	if types == nil {
		types = []model.GearType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// Create handles POST /api/geartypes.
func (h *GearTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGearTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	t, err := store.CreateGearType(r.Context(), h.DB, req.Name, req.Department, req.Description)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create gear type")
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}

// Get handles GET /api/geartypes/{id}.
func (h *GearTypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid gear type id")
		return
	}

	t, err := store.GetGearType(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get gear type")
		return
	}
	if t == nil {
		jsonError(w, http.StatusNotFound, "gear type not found")
		return
	}
	jsonResponse(w, http.StatusOK, t)
}
