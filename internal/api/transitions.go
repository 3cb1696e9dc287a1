package api

import (
	"net/http"
	"time"

	"github.com/clubtools/gearshed/internal/engine"
	"github.com/clubtools/gearshed/internal/model"
)

// TransitionsHandler exposes the transition engine to kiosks, admin
// tooling and scheduled jobs.
type TransitionsHandler struct {
	Engine *engine.Engine
}

type transitionRequest struct {
	Tag          string     `json:"tag"`
	Action       string     `json:"action"`
	ActorTag     string     `json:"actor_tag"`
	MemberTag    string     `json:"member_tag,omitempty"`
	Comment      string     `json:"comment,omitempty"`
	NewTag       string     `json:"new_tag,omitempty"`
	TargetStatus string     `json:"target_status,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	// Create-only fields.
	GearTypeID      int64   `json:"gear_type_id,omitempty"`
	Data            string  `json:"data,omitempty"`
	RequiredCertIDs []int64 `json:"required_cert_ids,omitempty"`
}

// validate performs field-level validation before the request reaches the
// engine.
func (req *transitionRequest) validate() string {
	if _, known := model.ActionCategory(req.Action); !known {
		return "unknown action"
	}
	if !model.ValidTag(req.ActorTag) {
		return "actor_tag must be a " + tagRequirement
	}
	switch req.Action {
	case model.ActionCreate:
		if req.Tag != "" && !model.ValidTag(req.Tag) {
			return "tag must be empty or a " + tagRequirement
		}
		if req.GearTypeID <= 0 {
			return "gear_type_id required"
		}
	case model.ActionCheckOut:
		if !model.ValidTag(req.Tag) {
			return "tag must be a " + tagRequirement
		}
		if !model.ValidTag(req.MemberTag) {
			return "member_tag must be a " + tagRequirement
		}
	case model.ActionReTag:
		if !model.ValidTag(req.Tag) {
			return "tag must be a " + tagRequirement
		}
		if !model.ValidTag(req.NewTag) {
			return "new_tag must be a " + tagRequirement
		}
	case model.ActionOverride:
		if !model.ValidTag(req.Tag) {
			return "tag must be a " + tagRequirement
		}
		if !model.ValidStatus(req.TargetStatus) {
			return "unknown target_status"
		}
	default:
		if !model.ValidTag(req.Tag) {
			return "tag must be a " + tagRequirement
		}
	}
	return ""
}

const tagRequirement = "10 digit tag"

// Apply handles POST /api/transitions.
func (h *TransitionsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	g, err := h.Engine.Apply(r.Context(), engine.Request{
		Tag:             req.Tag,
		Action:          req.Action,
		ActorTag:        req.ActorTag,
		MemberTag:       req.MemberTag,
		Comment:         req.Comment,
		NewTag:          req.NewTag,
		TargetStatus:    req.TargetStatus,
		DueDate:         req.DueDate,
		GearTypeID:      req.GearTypeID,
		Data:            req.Data,
		RequiredCertIDs: req.RequiredCertIDs,
	})
	if err != nil {
		engineError(w, err)
		return
	}

	status := http.StatusOK
	if req.Action == model.ActionCreate {
		status = http.StatusCreated
	}
	jsonResponse(w, status, g)
}

type checkoutRequest struct {
	GearTag   string `json:"gear_tag"`
	MemberTag string `json:"member_tag"`
	ActorTag  string `json:"actor_tag"`
	Comment   string `json:"comment,omitempty"`
}

// CheckOut handles POST /api/checkout, the kiosk fast path.
func (h *TransitionsHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidTag(req.GearTag) || !model.ValidTag(req.MemberTag) || !model.ValidTag(req.ActorTag) {
		jsonError(w, http.StatusBadRequest, "gear_tag, member_tag and actor_tag must be "+tagRequirement+"s")
		return
	}

	g, err := h.Engine.Apply(r.Context(), engine.Request{
		Tag:       req.GearTag,
		Action:    model.ActionCheckOut,
		ActorTag:  req.ActorTag,
		MemberTag: req.MemberTag,
		Comment:   req.Comment,
	})
	if err != nil {
		engineError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, g)
}

type checkinRequest struct {
	GearTag  string `json:"gear_tag"`
	ActorTag string `json:"actor_tag"`
	Comment  string `json:"comment,omitempty"`
}

// CheckIn handles POST /api/checkin.
func (h *TransitionsHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidTag(req.GearTag) || !model.ValidTag(req.ActorTag) {
		jsonError(w, http.StatusBadRequest, "gear_tag and actor_tag must be "+tagRequirement+"s")
		return
	}

	g, err := h.Engine.Apply(r.Context(), engine.Request{
		Tag:      req.GearTag,
		Action:   model.ActionCheckIn,
		ActorTag: req.ActorTag,
		Comment:  req.Comment,
	})
	if err != nil {
		engineError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, g)
}
