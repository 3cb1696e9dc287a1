// Package engine implements the gear lifecycle state machine: it validates
// requested transitions against the transition table, applies them, and
// appends exactly one ledger entry per accepted transition. The gear row
// mutation and its ledger entry commit atomically; a rejected request
// writes nothing.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubtools/gearshed/internal/model"
	"github.com/clubtools/gearshed/internal/store"
	"github.com/clubtools/gearshed/internal/tag"
)

// Policy holds the rental policy knobs.
type Policy struct {
	// DuePeriod is how long a checkout lasts before the item is due back.
	DuePeriod time.Duration

	// Grace is how long past the due date an item may stay out before the
	// sweep marks it missing.
	Grace time.Duration

	// EnforceOverdueHolds refuses checkout to members still holding
	// overdue gear.
	EnforceOverdueHolds bool
}

// DefaultPolicy returns the stock rental policy.
func DefaultPolicy() Policy {
	return Policy{
		DuePeriod:           7 * 24 * time.Hour,
		Grace:               3 * 24 * time.Hour,
		EnforceOverdueHolds: false,
	}
}

// LoadPolicy overlays durable settings onto the given defaults.
func LoadPolicy(ctx context.Context, db *sql.DB, def Policy) (Policy, error) {
	dueDays, err := store.GetIntSetting(ctx, db, store.SettingDueDays, int(def.DuePeriod/(24*time.Hour)))
	if err != nil {
		return Policy{}, err
	}
	graceDays, err := store.GetIntSetting(ctx, db, store.SettingGraceDays, int(def.Grace/(24*time.Hour)))
	if err != nil {
		return Policy{}, err
	}
	enforce, err := store.GetBoolSetting(ctx, db, store.SettingEnforceHolds, def.EnforceOverdueHolds)
	if err != nil {
		return Policy{}, err
	}

	return Policy{
		DuePeriod:           time.Duration(dueDays) * 24 * time.Hour,
		Grace:               time.Duration(graceDays) * 24 * time.Hour,
		EnforceOverdueHolds: enforce,
	}, nil
}

// Engine applies transitions against the shared gear store and ledger.
type Engine struct {
	DB     *sql.DB
	Tags   tag.Generator
	Policy Policy

	// Now is the clock; tests override it.
	Now func() time.Time
}

// New creates an engine using the wall clock.
func New(db *sql.DB, tags tag.Generator, policy Policy) *Engine {
	return &Engine{DB: db, Tags: tags, Policy: policy, Now: time.Now}
}

// Request is one transition request submitted by a kiosk, an admin action
// or a scheduled job.
type Request struct {
	// Tag identifies the gear item. Empty on Create to have a tag
	// generated.
	Tag    string
	Action string

	// ActorTag identifies the member authorizing the transition.
	ActorTag string

	// MemberTag identifies the member receiving the item. Required for
	// CheckOut and for Override to checked_out.
	MemberTag string

	Comment string

	// NewTag is the replacement tag for ReTag.
	NewTag string

	// TargetStatus is the forced status for Override.
	TargetStatus string

	// DueDate optionally fixes the due date for Override to checked_out;
	// when nil the policy due period applies.
	DueDate *time.Time

	// Create-only fields.
	GearTypeID      int64
	Data            string
	RequiredCertIDs []int64
}

// Apply validates and applies one transition. On success the gear row and
// a single ledger entry commit together and the refreshed gear record is
// returned; on any failure neither is written.
func (e *Engine) Apply(ctx context.Context, req Request) (*model.Gear, error) {
	category, known := model.ActionCategory(req.Action)
	if !known {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, req.Action)
	}
	now := e.Now().UTC()

	// Generate tags before the transaction opens: the generator's
	// collision check runs its own queries and must not wait on the
	// connection the transaction holds.
	if req.Action == model.ActionCreate && req.Tag == "" {
		generated, err := e.Tags.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("generating gear tag: %w", err)
		}
		req.Tag = generated
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Take the write lock before reading so concurrent transitions queue
	// up behind each other instead of failing with a snapshot conflict
	// after both have read the same state.
	if _, err := tx.ExecContext(ctx, `UPDATE settings SET value = value WHERE key = ''`); err != nil {
		return nil, fmt.Errorf("acquiring write lock: %w", err)
	}

	actor, err := memberByTag(ctx, tx, req.ActorTag)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, fmt.Errorf("%w: actor %s", ErrNotFound, req.ActorTag)
	}
	if !actor.ActiveAt(now) {
		return nil, fmt.Errorf("%w: actor %s", ErrNotActive, actor.Tag)
	}
	if req.Action == model.ActionOverride && !actor.IsAdmin {
		return nil, fmt.Errorf("%w: override requires an administrator", ErrNotAuthorized)
	}

	var gearID int64
	var entryMember *int64
	if req.Action == model.ActionCreate {
		gearID, err = e.create(ctx, tx, req, now)
	} else {
		gearID, entryMember, err = e.transition(ctx, tx, req, now)
	}
	if err != nil {
		return nil, err
	}

	// Exactly one ledger entry per accepted transition, committed with
	// the gear mutation or not at all.
	entryID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating ledger entry id: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger (id, gear_id, action, category, authorizer_id, member_id, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID.String(), gearID, req.Action, category, actor.ID, entryMember, req.Comment, now,
	)
	if err != nil {
		return nil, fmt.Errorf("appending ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transition: %w", err)
	}

	return store.GetGearByID(ctx, e.DB, gearID)
}

// create handles the Create action: a brand new gear record in stock.
func (e *Engine) create(ctx context.Context, tx *sql.Tx, req Request, now time.Time) (int64, error) {
	gearTag := req.Tag
	if !model.ValidTag(gearTag) {
		return 0, fmt.Errorf("invalid gear tag %q", gearTag)
	}

	if err := checkTagFree(ctx, tx, gearTag); err != nil {
		return 0, err
	}

	var typeCount int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gear_types WHERE id = ?`, req.GearTypeID,
	).Scan(&typeCount); err != nil {
		return 0, fmt.Errorf("checking gear type: %w", err)
	}
	if typeCount == 0 {
		return 0, fmt.Errorf("%w: gear type %d", ErrNotFound, req.GearTypeID)
	}

	data := req.Data
	if data == "" {
		data = "{}"
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO gear (tag, status, gear_type_id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gearTag, model.StatusInStock, req.GearTypeID, data, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateTag, gearTag)
		}
		return 0, fmt.Errorf("creating gear: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting gear id: %w", err)
	}

	for _, certID := range req.RequiredCertIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gear_certifications (gear_id, certification_id) VALUES (?, ?)`,
			id, certID,
		); err != nil {
			return 0, fmt.Errorf("requiring certification %d: %w", certID, err)
		}
	}

	return id, nil
}

// transition handles every action against an existing gear record. It
// returns the gear ID and the member reference to record on the ledger
// entry: the member receiving the item for checkouts, otherwise whoever
// held it when the transition started (nil for pure admin actions on idle
// gear).
func (e *Engine) transition(ctx context.Context, tx *sql.Tx, req Request, now time.Time) (int64, *int64, error) {
	g, err := gearByTag(ctx, tx, req.Tag)
	if err != nil {
		return 0, nil, err
	}
	if g == nil {
		return 0, nil, fmt.Errorf("%w: gear %s", ErrNotFound, req.Tag)
	}

	// Removed items no longer own their tag and never match the lookup
	// above, so every status seen here is non-terminal.
	next := g.Status
	newTag := g.Tag
	holderID := (*int64)(nil)
	var dueDate *time.Time
	entryMember := g.HolderID

	switch req.Action {
	case model.ActionCheckOut:
		member, err := memberByTag(ctx, tx, req.MemberTag)
		if err != nil {
			return 0, nil, err
		}
		if member == nil {
			return 0, nil, fmt.Errorf("%w: member %s", ErrNotFound, req.MemberTag)
		}
		overdue := 0
		if e.Policy.EnforceOverdueHolds {
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM gear WHERE holder_id = ? AND status = 'checked_out' AND due_date < ?`,
				member.ID, now,
			).Scan(&overdue); err != nil {
				return 0, nil, fmt.Errorf("counting overdue gear: %w", err)
			}
		}
		if err := CheckEligibility(CheckoutContext{
			Member:              member,
			Gear:                g,
			Now:                 now,
			OverdueHeld:         overdue,
			EnforceOverdueHolds: e.Policy.EnforceOverdueHolds,
		}); err != nil {
			return 0, nil, err
		}
		next = model.StatusCheckedOut
		holderID = &member.ID
		due := now.Add(e.Policy.DuePeriod)
		dueDate = &due
		entryMember = &member.ID

	case model.ActionCheckIn:
		if g.Status != model.StatusCheckedOut {
			return 0, nil, invalid(req.Action, g)
		}
		next = model.StatusInStock

	case model.ActionInventory:
		next = model.StatusInStock

	case model.ActionRemove:
		next = model.StatusRemoved

	case model.ActionReTag:
		if !model.ValidTag(req.NewTag) {
			return 0, nil, fmt.Errorf("invalid replacement tag %q", req.NewTag)
		}
		if req.NewTag != g.Tag {
			if err := checkTagFree(ctx, tx, req.NewTag); err != nil {
				return 0, nil, err
			}
		}
		newTag = req.NewTag
		holderID = g.HolderID
		dueDate = g.DueDate

	case model.ActionBreak:
		if g.Status == model.StatusBroken {
			return 0, nil, invalid(req.Action, g)
		}
		next = model.StatusBroken

	case model.ActionFix:
		if g.Status != model.StatusBroken {
			return 0, nil, invalid(req.Action, g)
		}
		next = model.StatusInStock

	case model.ActionOverride:
		if !model.ValidStatus(req.TargetStatus) {
			return 0, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.TargetStatus)
		}
		next = req.TargetStatus
		if next == model.StatusCheckedOut {
			member, err := memberByTag(ctx, tx, req.MemberTag)
			if err != nil {
				return 0, nil, err
			}
			if member == nil {
				return 0, nil, fmt.Errorf("%w: member %s", ErrNotFound, req.MemberTag)
			}
			holderID = &member.ID
			due := now.Add(e.Policy.DuePeriod)
			if req.DueDate != nil {
				due = req.DueDate.UTC()
			}
			dueDate = &due
			entryMember = &member.ID
		}

	case model.ActionMissing:
		if g.Status != model.StatusCheckedOut && g.Status != model.StatusInStock {
			return 0, nil, invalid(req.Action, g)
		}
		next = model.StatusMissing

	case model.ActionExpire:
		if g.Status != model.StatusCheckedOut {
			return 0, nil, invalid(req.Action, g)
		}
		if g.DueDate != nil && g.DueDate.After(now) {
			return 0, nil, fmt.Errorf("%w: gear %s not due until %s", ErrInvalidTransition, g.Tag, g.DueDate.Format(time.RFC3339))
		}
		// Documented, not enforced: an expiration is recorded in the
		// ledger but the item stays checked out.
		return g.ID, entryMember, nil

	default:
		return 0, nil, invalid(req.Action, g)
	}

	// Compare-and-set on the state we validated against. If a concurrent
	// transition slipped in between our read and here, zero rows match
	// and nothing is written.
	result, err := tx.ExecContext(ctx,
		`UPDATE gear SET tag = ?, status = ?, holder_id = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND tag = ?`,
		newTag, next, holderID, dueDate, now, g.ID, g.Status, g.Tag,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, nil, fmt.Errorf("%w: %s", ErrDuplicateTag, newTag)
		}
		return 0, nil, fmt.Errorf("updating gear: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, nil, fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		if req.Action == model.ActionCheckOut {
			return 0, nil, fmt.Errorf("%w: gear %s", ErrNotAvailable, g.Tag)
		}
		return 0, nil, fmt.Errorf("%w: gear %s", ErrConcurrentConflict, g.Tag)
	}

	return g.ID, entryMember, nil
}

func invalid(action string, g *model.Gear) error {
	return fmt.Errorf("%w: %s from %s (gear %s)", ErrInvalidTransition, action, g.Status, g.Tag)
}

func checkTagFree(ctx context.Context, tx *sql.Tx, gearTag string) error {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gear WHERE tag = ? AND status != 'removed'`, gearTag,
	).Scan(&n); err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, gearTag)
	}
	return nil
}

// gearByTag loads the gear row inside the transaction, required certs
// included.
func gearByTag(ctx context.Context, tx *sql.Tx, gearTag string) (*model.Gear, error) {
	g := &model.Gear{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, tag, status, holder_id, due_date, gear_type_id, data, created_at, updated_at
		 FROM gear WHERE tag = ? AND status != 'removed'`, gearTag,
	).Scan(&g.ID, &g.Tag, &g.Status, &g.HolderID, &g.DueDate, &g.GearTypeID, &g.Data, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting gear: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT certification_id FROM gear_certifications WHERE gear_id = ?`, g.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting gear certifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning gear certification: %w", err)
		}
		g.RequiredCertIDs = append(g.RequiredCertIDs, id)
	}
	return g, rows.Err()
}

// memberByTag loads a member row inside the transaction, certifications
// included.
func memberByTag(ctx context.Context, tx *sql.Tx, memberTag string) (*model.Member, error) {
	m := &model.Member{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, tag, email, first_name, last_name, status, is_admin, joined_at, expires_at
		 FROM members WHERE tag = ?`, memberTag,
	).Scan(&m.ID, &m.Tag, &m.Email, &m.FirstName, &m.LastName, &m.Status, &m.IsAdmin, &m.JoinedAt, &m.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT certification_id FROM member_certifications WHERE member_id = ?`, m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting member certifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member certification: %w", err)
		}
		m.CertIDs = append(m.CertIDs, id)
	}
	return m, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
