package model

import "time"

// Member is a club member as seen by the gear system: identified by the
// tag on their membership card, with a status and a set of earned
// certifications. Accounts themselves (passwords, contact details beyond
// what is shown here) belong to the membership subsystem.
type Member struct {
	ID        int64      `json:"id"`
	Tag       string     `json:"tag"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Status    string     `json:"status"`
	IsAdmin   bool       `json:"is_admin"`
	JoinedAt  time.Time  `json:"joined_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// CertIDs is the set of certifications the member has earned. Loaded
	// separately from the join table.
	CertIDs []int64 `json:"cert_ids,omitempty"`
}

// Member statuses.
const (
	MemberStatusNew       = "new"
	MemberStatusActive    = "active"
	MemberStatusExpired   = "expired"
	MemberStatusSuspended = "suspended"
)

// FullName returns the member's display name.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// ActiveAt reports whether the membership is in good standing at the given
// time: status active and not past the expiry date. A stale status column
// cannot resurrect a lapsed membership.
func (m *Member) ActiveAt(now time.Time) bool {
	if m.Status != MemberStatusActive {
		return false
	}
	if m.ExpiresAt != nil && !now.Before(*m.ExpiresAt) {
		return false
	}
	return true
}

// HasCert reports whether the member has earned the given certification.
func (m *Member) HasCert(certID int64) bool {
	for _, id := range m.CertIDs {
		if id == certID {
			return true
		}
	}
	return false
}

// Certification is a skill qualification that gear items may require for
// checkout.
type Certification struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Requirements string `json:"requirements,omitempty"`
}
