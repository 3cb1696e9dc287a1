package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubtools/gearshed/internal/model"
)

func TestCreateAndGetMember(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()

	expires := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := CreateMember(ctx, d, "2000000001", "kim@example.com", "Kim", "Novak",
		model.MemberStatusActive, false, &expires)
	require.NoError(t, err)
	assert.Equal(t, "Kim Novak", m.FullName())
	assert.False(t, m.IsAdmin)
	require.NotNil(t, m.ExpiresAt)
	assert.False(t, m.JoinedAt.IsZero())

	got, err := GetMemberByTag(ctx, d, "2000000001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.ID, got.ID)

	got, err = GetMemberByTag(ctx, d, "9999999999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateMemberRejectsBadTag(t *testing.T) {
	d := newStoreDB(t)

	_, err := CreateMember(context.Background(), d, "12345", "x@example.com", "X", "Y",
		model.MemberStatusActive, false, nil)
	require.Error(t, err)
}

func TestCreateMemberDuplicateTag(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	mustMember(t, d, "2000000001")

	_, err := CreateMember(ctx, d, "2000000001", "dup@example.com", "Dup", "Licate",
		model.MemberStatusActive, false, nil)
	require.Error(t, err)
}

func TestSetMemberStatus(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	m := mustMember(t, d, "2000000001")

	require.NoError(t, SetMemberStatus(ctx, d, m.ID, model.MemberStatusExpired))

	got, err := GetMemberByID(ctx, d, m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MemberStatusExpired, got.Status)
}

func TestCertificationGrants(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	m := mustMember(t, d, "2000000001")

	kayaking, err := CreateCertification(ctx, d, "Kayaking", "pool session")
	require.NoError(t, err)
	sup, err := CreateCertification(ctx, d, "SUP", "")
	require.NoError(t, err)

	require.NoError(t, GrantCertification(ctx, d, m.ID, kayaking.ID))
	require.NoError(t, GrantCertification(ctx, d, m.ID, kayaking.ID)) // idempotent

	got, err := GetMemberByID(ctx, d, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{kayaking.ID}, got.CertIDs)
	assert.True(t, got.HasCert(kayaking.ID))
	assert.False(t, got.HasCert(sup.ID))

	certs, err := ListCertifications(ctx, d)
	require.NoError(t, err)
	assert.Len(t, certs, 2)
}
