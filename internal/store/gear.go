package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clubtools/gearshed/internal/model"
)

const gearColumns = `g.id, g.tag, g.status, g.holder_id, g.due_date, g.gear_type_id, g.data,
       g.created_at, g.updated_at, t.name,
       COALESCE(m.first_name || ' ' || m.last_name, ''), COALESCE(m.tag, '')`

const gearFrom = ` FROM gear g
       JOIN gear_types t ON t.id = g.gear_type_id
       LEFT JOIN members m ON m.id = g.holder_id`

// GetGearByTag returns the gear item carrying the given tag, or nil if no
// non-retired item does. Retired (removed) items keep their last tag but
// no longer own it.
func GetGearByTag(ctx context.Context, db *sql.DB, tag string) (*model.Gear, error) {
	return getGear(ctx, db, `g.tag = ? AND g.status != 'removed'`, tag)
}

// GetGearByID returns a gear item by internal ID.
func GetGearByID(ctx context.Context, db *sql.DB, id int64) (*model.Gear, error) {
	return getGear(ctx, db, `g.id = ?`, id)
}

func getGear(ctx context.Context, db *sql.DB, where string, arg any) (*model.Gear, error) {
	row := db.QueryRowContext(ctx, `SELECT `+gearColumns+gearFrom+` WHERE `+where, arg)

	g := &model.Gear{}
	err := row.Scan(&g.ID, &g.Tag, &g.Status, &g.HolderID, &g.DueDate, &g.GearTypeID, &g.Data,
		&g.CreatedAt, &g.UpdatedAt, &g.GearTypeName, &g.HolderName, &g.HolderTag)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting gear: %w", err)
	}

	g.RequiredCertIDs, err = GetGearRequiredCerts(ctx, db, g.ID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGear returns gear items, optionally filtered by status and/or type.
// Removed items are excluded unless explicitly asked for by status.
func ListGear(ctx context.Context, db *sql.DB, status string, gearTypeID int64) ([]model.Gear, error) {
	query := `SELECT ` + gearColumns + gearFrom + ` WHERE 1=1`
	var args []any

	if status != "" {
		query += ` AND g.status = ?`
		args = append(args, status)
	} else {
		query += ` AND g.status != 'removed'`
	}
	if gearTypeID > 0 {
		query += ` AND g.gear_type_id = ?`
		args = append(args, gearTypeID)
	}
	query += ` ORDER BY g.tag`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing gear: %w", err)
	}
	defer rows.Close()

	return scanGear(rows)
}

// ListGearByHolder returns all gear currently checked out to a member.
func ListGearByHolder(ctx context.Context, db *sql.DB, memberID int64) ([]model.Gear, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+gearColumns+gearFrom+` WHERE g.holder_id = ? ORDER BY g.due_date`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing gear by holder: %w", err)
	}
	defer rows.Close()

	return scanGear(rows)
}

// ListOverdue returns checked-out gear whose due date is before the cutoff.
func ListOverdue(ctx context.Context, db *sql.DB, before time.Time) ([]model.Gear, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+gearColumns+gearFrom+`
		 WHERE g.status = 'checked_out' AND g.due_date < ?
		 ORDER BY g.due_date`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("listing overdue gear: %w", err)
	}
	defer rows.Close()

	return scanGear(rows)
}

// CountOverdueHeldBy counts checked-out items held by a member that were
// due before the cutoff. Used by the optional outstanding-holds checkout
// policy.
func CountOverdueHeldBy(ctx context.Context, db *sql.DB, memberID int64, before time.Time) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gear WHERE holder_id = ? AND status = 'checked_out' AND due_date < ?`,
		memberID, before,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting overdue gear: %w", err)
	}
	return n, nil
}

// GearTagExists reports whether a tag is bound to a non-retired gear item.
func GearTagExists(ctx context.Context, db *sql.DB, tag string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gear WHERE tag = ? AND status != 'removed'`, tag,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking gear tag: %w", err)
	}
	return n > 0, nil
}

// GetGearRequiredCerts returns the certification IDs required to check out
// a gear item.
func GetGearRequiredCerts(ctx context.Context, db *sql.DB, gearID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT certification_id FROM gear_certifications WHERE gear_id = ? ORDER BY certification_id`,
		gearID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting gear certifications: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning gear certification: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RequireCertification marks a certification as required for a gear item.
func RequireCertification(ctx context.Context, db *sql.DB, gearID, certID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO gear_certifications (gear_id, certification_id) VALUES (?, ?)`,
		gearID, certID,
	)
	if err != nil {
		return fmt.Errorf("requiring certification: %w", err)
	}
	return nil
}

func scanGear(rows *sql.Rows) ([]model.Gear, error) {
	var items []model.Gear
	for rows.Next() {
		var g model.Gear
		if err := rows.Scan(&g.ID, &g.Tag, &g.Status, &g.HolderID, &g.DueDate, &g.GearTypeID, &g.Data,
			&g.CreatedAt, &g.UpdatedAt, &g.GearTypeName, &g.HolderName, &g.HolderTag); err != nil {
			return nil, fmt.Errorf("scanning gear: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
