package api

import (
	"database/sql"
	"net/http"

	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// MembersHandler exposes the member lookups the kiosk needs. Member
// accounts themselves are managed by the membership subsystem; this is
// read-only.
type MembersHandler struct {
	DB *sql.DB
}

// Get handles GET /api/members/{tag}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := store.GetMemberByTag(r.Context(), h.DB, r.PathValue("tag"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}
	jsonResponse(w, http.StatusOK, member)
}

// GetGear handles GET /api/members/{tag}/gear: everything the member
// currently has checked out.
func (h *MembersHandler) GetGear(w http.ResponseWriter, r *http.Request) {
	member, err := store.GetMemberByTag(r.Context(), h.DB, r.PathValue("tag"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		jsonError(w, http.StatusNotFound, "member not found")
		return
	}

	items, err := store.ListGearByHolder(r.Context(), h.DB, member.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list gear")
		return
	}
	if items == nil {
		items = []model.Gear{}
	}
	jsonResponse(w, http.StatusOK, items)
}
