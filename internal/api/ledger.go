package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
)

// LedgerHandler exposes the audit trail.
type LedgerHandler struct {
	DB *sql.DB
}

// List handles GET /api/ledger. Filters: gear_tag, member_tag, action,
// limit.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.LedgerFilter

	if gearTag := r.URL.Query().Get("gear_tag"); gearTag != "" {
		g, err := store.GetGearByTag(r.Context(), h.DB, gearTag)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to resolve gear tag")
			return
		}
		if g == nil {
			jsonError(w, http.StatusNotFound, "gear not found")
			return
		}
		filter.GearID = g.ID
	}

	if memberTag := r.URL.Query().Get("member_tag"); memberTag != "" {
		m, err := store.GetMemberByTag(r.Context(), h.DB, memberTag)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to resolve member tag")
			return
		}
		if m == nil {
			jsonError(w, http.StatusNotFound, "member not found")
			return
		}
		filter.MemberID = m.ID
	}

	if action := r.URL.Query().Get("action"); action != "" {
		if _, known := model.ActionCategory(action); !known {
			jsonError(w, http.StatusBadRequest, "unknown action")
			return
		}
		filter.Action = action
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := store.ListEntries(r.Context(), h.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list ledger entries")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
