package engine

import "errors"

// Transition and eligibility failures. All are recoverable by the caller:
// the gear record and the ledger are untouched whenever one of these is
// returned. Wrap with fmt.Errorf("%w: ...") to add detail; callers match
// with errors.Is.
var (
	// ErrNotFound means the tag identifier resolves to nothing.
	ErrNotFound = errors.New("unknown tag")

	// ErrInvalidTransition means the requested action is not legal from
	// the item's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrNotActive means the membership is new, expired or suspended.
	ErrNotActive = errors.New("membership not active")

	// ErrMissingCertification means the member lacks a certification the
	// gear item requires.
	ErrMissingCertification = errors.New("missing required certification")

	// ErrNotAvailable means the gear item is not in stock, including when
	// a concurrent checkout won the race for it.
	ErrNotAvailable = errors.New("gear not available")

	// ErrOverdueHold means the member still holds overdue gear and the
	// overdue-holds policy is enforced.
	ErrOverdueHold = errors.New("outstanding overdue gear")

	// ErrDuplicateTag means the tag is already bound to another active
	// gear item.
	ErrDuplicateTag = errors.New("tag already in use")

	// ErrConcurrentConflict means another transition on the same item
	// committed first; the caller may retry against the new state.
	ErrConcurrentConflict = errors.New("concurrent transition conflict")

	// ErrNotAuthorized means the actor lacks the privilege the action
	// requires (Override is administrator-only).
	ErrNotAuthorized = errors.New("actor not authorized")
)
