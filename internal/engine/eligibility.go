package engine

import (
	"fmt"
	"time"

	"github.com/clubtools/gearshed/internal/model"
)

// CheckoutContext carries everything the eligibility rules need, gathered
// up front so the rules themselves never touch storage.
type CheckoutContext struct {
	Member *model.Member
	Gear   *model.Gear
	Now    time.Time

	// OverdueHeld is how many overdue items the member currently holds.
	// Only consulted when EnforceOverdueHolds is set.
	OverdueHeld         int
	EnforceOverdueHolds bool
}

// CheckEligibility decides whether the member may check out the gear item.
// Rules run in order and short-circuit on the first failure, each
// surfacing its specific reason so a kiosk can tell the member what to fix.
func CheckEligibility(c CheckoutContext) error {
	if !c.Member.ActiveAt(c.Now) {
		return fmt.Errorf("%w: member %s is %s", ErrNotActive, c.Member.Tag, c.Member.Status)
	}

	for _, certID := range c.Gear.RequiredCertIDs {
		if !c.Member.HasCert(certID) {
			return fmt.Errorf("%w: certification %d", ErrMissingCertification, certID)
		}
	}

	if !c.Gear.IsAvailable() {
		return fmt.Errorf("%w: gear %s is %s", ErrNotAvailable, c.Gear.Tag, c.Gear.Status)
	}

	if c.EnforceOverdueHolds && c.OverdueHeld > 0 {
		return fmt.Errorf("%w: %d overdue item(s)", ErrOverdueHold, c.OverdueHeld)
	}

	return nil
}
