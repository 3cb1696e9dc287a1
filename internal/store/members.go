package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clubtools/gearshed/internal/model"
)

// CreateMember creates a member record in the directory.
func CreateMember(ctx context.Context, db *sql.DB, tag, email, firstName, lastName, status string, isAdmin bool, expiresAt *time.Time) (*model.Member, error) {
	if !model.ValidTag(tag) {
		return nil, fmt.Errorf("invalid member tag %q", tag)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO members (tag, email, first_name, last_name, status, is_admin, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tag, email, firstName, lastName, status, isAdmin, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting member id: %w", err)
	}

	return GetMemberByID(ctx, db, id)
}

// GetMemberByTag returns the member carrying the given card tag, with
// certifications loaded, or nil if unknown.
func GetMemberByTag(ctx context.Context, db *sql.DB, tag string) (*model.Member, error) {
	return getMember(ctx, db, `tag = ?`, tag)
}

// GetMemberByID returns a member by internal ID, with certifications loaded.
func GetMemberByID(ctx context.Context, db *sql.DB, id int64) (*model.Member, error) {
	return getMember(ctx, db, `id = ?`, id)
}

func getMember(ctx context.Context, db *sql.DB, where string, arg any) (*model.Member, error) {
	m := &model.Member{}
	err := db.QueryRowContext(ctx,
		`SELECT id, tag, email, first_name, last_name, status, is_admin, joined_at, expires_at
		 FROM members WHERE `+where, arg,
	).Scan(&m.ID, &m.Tag, &m.Email, &m.FirstName, &m.LastName, &m.Status, &m.IsAdmin, &m.JoinedAt, &m.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}

	m.CertIDs, err = GetMemberCertifications(ctx, db, m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SetMemberStatus updates a member's status.
func SetMemberStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE members SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("setting member status: %w", err)
	}
	return nil
}

// GetMemberCertifications returns the certification IDs a member has earned.
func GetMemberCertifications(ctx context.Context, db *sql.DB, memberID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT certification_id FROM member_certifications WHERE member_id = ? ORDER BY certification_id`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting member certifications: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member certification: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GrantCertification records that a member has earned a certification.
func GrantCertification(ctx context.Context, db *sql.DB, memberID, certID int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO member_certifications (member_id, certification_id) VALUES (?, ?)`,
		memberID, certID,
	)
	if err != nil {
		return fmt.Errorf("granting certification: %w", err)
	}
	return nil
}

// CreateCertification creates a certification.
func CreateCertification(ctx context.Context, db *sql.DB, title, requirements string) (*model.Certification, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO certifications (title, requirements) VALUES (?, ?)`,
		title, requirements,
	)
	if err != nil {
		return nil, fmt.Errorf("creating certification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting certification id: %w", err)
	}

	return &model.Certification{ID: id, Title: title, Requirements: requirements}, nil
}

// ListCertifications returns all certifications.
func ListCertifications(ctx context.Context, db *sql.DB) ([]model.Certification, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, requirements FROM certifications ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing certifications: %w", err)
	}
	defer rows.Close()

	var certs []model.Certification
	for rows.Next() {
		var c model.Certification
		if err := rows.Scan(&c.ID, &c.Title, &c.Requirements); err != nil {
			return nil, fmt.Errorf("scanning certification: %w", err)
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}
