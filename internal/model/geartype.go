package model

// GearType is a category of gear (e.g. "Tent", "Climbing Harness"),
// grouped under a department label.
type GearType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`
}
