package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/clubtools/gearshed/internal/engine"
	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// GearHandler handles gear lookup endpoints and creation.
type GearHandler struct {
	DB     *sql.DB
	Engine *engine.Engine
}

// List handles GET /api/gear.
func (h *GearHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidStatus(status) {
		jsonError(w, http.StatusBadRequest, "unknown status")
		return
	}
	var gearTypeID int64
	if raw := r.URL.Query().Get("gear_type_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid gear_type_id")
			return
		}
		gearTypeID = id
	}

	items, err := store.ListGear(r.Context(), h.DB, status, gearTypeID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list gear")
		return
	}
	if items == nil {
		items = []model.Gear{}
	}
	jsonResponse(w, http.StatusOK, items)
}

type createGearRequest struct {
	Tag             string  `json:"tag,omitempty"`
	ActorTag        string  `json:"actor_tag"`
	GearTypeID      int64   `json:"gear_type_id"`
	Data            string  `json:"data,omitempty"`
	RequiredCertIDs []int64 `json:"required_cert_ids,omitempty"`
	Comment         string  `json:"comment,omitempty"`
}

// Create handles POST /api/gear: a thin wrapper over the Create
// transition, so new gear enters the ledger like everything else.
func (h *GearHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGearRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidTag(req.ActorTag) {
		jsonError(w, http.StatusBadRequest, "actor_tag must be a "+tagRequirement)
		return
	}
	if req.Tag != "" && !model.ValidTag(req.Tag) {
		jsonError(w, http.StatusBadRequest, "tag must be empty or a "+tagRequirement)
		return
	}
	if req.GearTypeID <= 0 {
		jsonError(w, http.StatusBadRequest, "gear_type_id required")
		return
	}

	g, err := h.Engine.Apply(r.Context(), engine.Request{
		Action:          model.ActionCreate,
		Tag:             req.Tag,
		ActorTag:        req.ActorTag,
		GearTypeID:      req.GearTypeID,
		Data:            req.Data,
		RequiredCertIDs: req.RequiredCertIDs,
		Comment:         req.Comment,
	})
	if err != nil {
		engineError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, g)
}

// Get handles GET /api/gear/{tag}.
func (h *GearHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.Engine.FindByTag(r.Context(), r.PathValue("tag"))
	if err != nil {
		engineError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, g)
}

// Holder handles GET /api/gear/{tag}/holder.
func (h *GearHandler) Holder(w http.ResponseWriter, r *http.Request) {
	member, err := h.Engine.CurrentHolder(r.Context(), r.PathValue("tag"))
	if err != nil {
		engineError(w, err)
		return
	}
	if member == nil {
		jsonResponse(w, http.StatusOK, map[string]any{"holder": nil})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"holder": member})
}

// Availability handles GET /api/gear/{tag}/availability.
func (h *GearHandler) Availability(w http.ResponseWriter, r *http.Request) {
	g, err := h.Engine.FindByTag(r.Context(), r.PathValue("tag"))
	if err != nil {
		engineError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"tag":        g.Tag,
		"status":     g.Status,
		"available":  g.IsAvailable(),
		"rented_out": g.IsRentedOut(),
	})
}

// History handles GET /api/gear/{tag}/history: the item's full audit
// trail, oldest first.
func (h *GearHandler) History(w http.ResponseWriter, r *http.Request) {
	g, err := h.Engine.FindByTag(r.Context(), r.PathValue("tag"))
	if err != nil {
		engineError(w, err)
		return
	}

	entries, err := store.GetGearHistory(r.Context(), h.DB, g.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get gear history")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
