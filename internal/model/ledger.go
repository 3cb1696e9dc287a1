package model

import "time"

// Entry is one immutable ledger record: a single accepted action taken
// against a single gear item by one authorizer, optionally on behalf of a
// member. Entries are append-only and never mutated or deleted.
type Entry struct {
	ID           string    `json:"id"`
	GearID       int64     `json:"gear_id"`
	Action       string    `json:"action"`
	Category     string    `json:"category"`
	AuthorizerID int64     `json:"authorizer_id"`
	MemberID     *int64    `json:"member_id,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Joined fields (not always populated).
	GearTag        string `json:"gear_tag,omitempty"`
	AuthorizerName string `json:"authorizer_name,omitempty"`
	MemberName     string `json:"member_name,omitempty"`
}

// Actions.
const (
	ActionCheckOut  = "check_out"
	ActionCheckIn   = "check_in"
	ActionInventory = "inventory"
	ActionCreate    = "create"
	ActionRemove    = "remove"
	ActionReTag     = "retag"
	ActionBreak     = "break"
	ActionFix       = "fix"
	ActionOverride  = "override"
	ActionMissing   = "missing"
	ActionExpire    = "expire"
)

// Ledger categories. Every action belongs to exactly one.
const (
	CategoryRental = "rental"
	CategoryAdmin  = "admin"
	CategoryAuto   = "auto"
)

var actionCategories = map[string]string{
	ActionCheckOut:  CategoryRental,
	ActionCheckIn:   CategoryRental,
	ActionInventory: CategoryRental,
	ActionCreate:    CategoryAdmin,
	ActionRemove:    CategoryAdmin,
	ActionReTag:     CategoryAdmin,
	ActionBreak:     CategoryAdmin,
	ActionFix:       CategoryAdmin,
	ActionOverride:  CategoryAdmin,
	ActionMissing:   CategoryAuto,
	ActionExpire:    CategoryAuto,
}

// ActionCategory returns the ledger category for an action, and whether the
// action is recognized at all.
func ActionCategory(action string) (string, bool) {
	cat, ok := actionCategories[action]
	return cat, ok
}
