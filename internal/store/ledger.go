package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clubtools/gearshed/internal/model"
)

const entryColumns = `e.id, e.gear_id, e.action, e.category, e.authorizer_id, e.member_id,
       e.comment, e.created_at, g.tag,
       a.first_name || ' ' || a.last_name,
       COALESCE(m.first_name || ' ' || m.last_name, '')`

const entryFrom = ` FROM ledger e
       JOIN gear g ON g.id = e.gear_id
       JOIN members a ON a.id = e.authorizer_id
       LEFT JOIN members m ON m.id = e.member_id`

// GetEntry returns a ledger entry by ID.
func GetEntry(ctx context.Context, db *sql.DB, id string) (*model.Entry, error) {
	e := &model.Entry{}
	err := db.QueryRowContext(ctx,
		`SELECT `+entryColumns+entryFrom+` WHERE e.id = ?`, id,
	).Scan(&e.ID, &e.GearID, &e.Action, &e.Category, &e.AuthorizerID, &e.MemberID,
		&e.Comment, &e.CreatedAt, &e.GearTag, &e.AuthorizerName, &e.MemberName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ledger entry: %w", err)
	}
	return e, nil
}

// LedgerFilter narrows ListEntries. Zero values mean "no filter".
type LedgerFilter struct {
	GearID   int64
	MemberID int64
	Action   string
	Limit    int
}

// ListEntries returns ledger entries, newest first.
func ListEntries(ctx context.Context, db *sql.DB, f LedgerFilter) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + entryFrom + ` WHERE 1=1`
	var args []any

	if f.GearID > 0 {
		query += ` AND e.gear_id = ?`
		args = append(args, f.GearID)
	}
	if f.MemberID > 0 {
		query += ` AND (e.member_id = ? OR e.authorizer_id = ?)`
		args = append(args, f.MemberID, f.MemberID)
	}
	if f.Action != "" {
		query += ` AND e.action = ?`
		args = append(args, f.Action)
	}

	query += ` ORDER BY e.created_at DESC, e.rowid DESC`

	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetGearHistory returns the full audit trail for a gear item, oldest first.
func GetGearHistory(ctx context.Context, db *sql.DB, gearID int64) ([]model.Entry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+entryColumns+entryFrom+`
		 WHERE e.gear_id = ?
		 ORDER BY e.created_at, e.rowid`,
		gearID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting gear history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountEntriesByGear returns the number of ledger entries for a gear item.
func CountEntriesByGear(ctx context.Context, db *sql.DB, gearID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger WHERE gear_id = ?`, gearID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting ledger entries: %w", err)
	}
	return n, nil
}

// HasEntrySince reports whether the gear item already has an entry of the
// given action at or after the cutoff. The expiration sweep uses this to
// stay idempotent across runs.
func HasEntrySince(ctx context.Context, db *sql.DB, gearID int64, action string, since time.Time) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger WHERE gear_id = ? AND action = ? AND created_at >= ?`,
		gearID, action, since,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking ledger entries: %w", err)
	}
	return n > 0, nil
}

func scanEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.GearID, &e.Action, &e.Category, &e.AuthorizerID, &e.MemberID,
			&e.Comment, &e.CreatedAt, &e.GearTag, &e.AuthorizerName, &e.MemberName); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
