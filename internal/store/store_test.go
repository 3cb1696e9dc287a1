package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clubtools/gearshed/internal/db"
	"github.com/clubtools/gearshed/internal/model"
)

// Shared helpers for the store tests. Gear rows are only ever created by
// the transition engine, so these tests insert them directly.

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func insertGear(t *testing.T, d *sql.DB, tag, status string, gearTypeID int64, holderID *int64, dueDate *time.Time) int64 {
	t.Helper()
	result, err := d.ExecContext(context.Background(),
		`INSERT INTO gear (tag, status, holder_id, due_date, gear_type_id, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '{}', ?, ?)`,
		tag, status, holderID, dueDate, gearTypeID, testTime, testTime,
	)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func insertEntry(t *testing.T, d *sql.DB, gearID int64, action string, authorizerID int64, memberID *int64, createdAt time.Time) string {
	t.Helper()
	category, ok := model.ActionCategory(action)
	require.True(t, ok)
	id := uuid.NewString()
	_, err := d.ExecContext(context.Background(),
		`INSERT INTO ledger (id, gear_id, action, category, authorizer_id, member_id, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, '', ?)`,
		id, gearID, action, category, authorizerID, memberID, createdAt,
	)
	require.NoError(t, err)
	return id
}

func mustMember(t *testing.T, d *sql.DB, tag string) *model.Member {
	t.Helper()
	m, err := CreateMember(context.Background(), d, tag, tag+"@example.com", "Test", "Member",
		model.MemberStatusActive, false, nil)
	require.NoError(t, err)
	return m
}

func mustGearType(t *testing.T, d *sql.DB, name string) *model.GearType {
	t.Helper()
	gt, err := CreateGearType(context.Background(), d, name, "General", "")
	require.NoError(t, err)
	return gt
}

func newStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	return db.NewTestDB(t)
}
