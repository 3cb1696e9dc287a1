package model

import "time"

// Gear represents an individually tagged physical item owned by the club.
type Gear struct {
	ID         int64      `json:"id"`
	Tag        string     `json:"tag"`
	Status     string     `json:"status"`
	HolderID   *int64     `json:"holder_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	GearTypeID int64      `json:"gear_type_id"`
	Data       string     `json:"data,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// RequiredCertIDs is the set of certifications a member must hold to
	// check this item out. Loaded separately from the join table.
	RequiredCertIDs []int64 `json:"required_cert_ids,omitempty"`

	// Joined fields (not always populated).
	GearTypeName string `json:"gear_type_name,omitempty"`
	HolderName   string `json:"holder_name,omitempty"`
	HolderTag    string `json:"holder_tag,omitempty"`
}

// Gear statuses.
const (
	StatusInStock    = "in_stock"
	StatusCheckedOut = "checked_out"
	StatusBroken     = "broken"
	StatusMissing    = "missing"
	StatusDormant    = "dormant"
	StatusRemoved    = "removed"
)

var validStatuses = map[string]bool{
	StatusInStock:    true,
	StatusCheckedOut: true,
	StatusBroken:     true,
	StatusMissing:    true,
	StatusDormant:    true,
	StatusRemoved:    true,
}

// ValidStatus reports whether s is a recognized gear status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// IsAvailable reports whether the item can be checked out right now.
func (g *Gear) IsAvailable() bool {
	return g.Status == StatusInStock
}

// IsRentedOut reports whether the item is currently checked out to a member.
func (g *Gear) IsRentedOut() bool {
	return g.Status == StatusCheckedOut
}

// TagLength is the length of the numeric code physically affixed to gear
// items and member cards.
const TagLength = 10

// ValidTag reports whether tag is a well-formed tag identifier: exactly
// TagLength ASCII digits.
func ValidTag(tag string) bool {
	if len(tag) != TagLength {
		return false
	}
	for _, c := range tag {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
