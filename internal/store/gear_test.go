package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubtools/gearshed/internal/model"
)

func TestGetGearByTag(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")

	id := insertGear(t, d, "1000000001", model.StatusInStock, gt.ID, nil, nil)

	g, err := GetGearByTag(ctx, d, "1000000001")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, model.StatusInStock, g.Status)
	assert.Equal(t, "Kayak", g.GearTypeName)
	assert.Empty(t, g.HolderName)

	g, err = GetGearByTag(ctx, d, "9999999999")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGetGearByTagSkipsRemoved(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")

	insertGear(t, d, "1000000001", model.StatusRemoved, gt.ID, nil, nil)
	kept := insertGear(t, d, "1000000001", model.StatusInStock, gt.ID, nil, nil)

	g, err := GetGearByTag(ctx, d, "1000000001")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, kept, g.ID)
}

func TestGetGearJoinsHolder(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")
	m := mustMember(t, d, "2000000001")

	due := testTime.Add(7 * 24 * time.Hour)
	insertGear(t, d, "1000000001", model.StatusCheckedOut, gt.ID, &m.ID, &due)

	g, err := GetGearByTag(ctx, d, "1000000001")
	require.NoError(t, err)
	require.NotNil(t, g)
	require.NotNil(t, g.HolderID)
	assert.Equal(t, m.ID, *g.HolderID)
	assert.Equal(t, "Test Member", g.HolderName)
	assert.Equal(t, m.Tag, g.HolderTag)
	require.NotNil(t, g.DueDate)
}

func TestListGearFilters(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	kayak := mustGearType(t, d, "Kayak")
	tent := mustGearType(t, d, "Tent")

	insertGear(t, d, "1000000001", model.StatusInStock, kayak.ID, nil, nil)
	insertGear(t, d, "1000000002", model.StatusBroken, kayak.ID, nil, nil)
	insertGear(t, d, "1000000003", model.StatusInStock, tent.ID, nil, nil)
	insertGear(t, d, "1000000004", model.StatusRemoved, tent.ID, nil, nil)

	all, err := ListGear(ctx, d, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3) // removed excluded by default

	broken, err := ListGear(ctx, d, model.StatusBroken, 0)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, "1000000002", broken[0].Tag)

	removed, err := ListGear(ctx, d, model.StatusRemoved, 0)
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	kayaks, err := ListGear(ctx, d, "", kayak.ID)
	require.NoError(t, err)
	assert.Len(t, kayaks, 2)

	brokenKayaks, err := ListGear(ctx, d, model.StatusBroken, kayak.ID)
	require.NoError(t, err)
	assert.Len(t, brokenKayaks, 1)
}

func TestListOverdue(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")
	m := mustMember(t, d, "2000000001")

	past := testTime.Add(-24 * time.Hour)
	future := testTime.Add(24 * time.Hour)
	overdueID := insertGear(t, d, "1000000001", model.StatusCheckedOut, gt.ID, &m.ID, &past)
	insertGear(t, d, "1000000002", model.StatusCheckedOut, gt.ID, &m.ID, &future)
	insertGear(t, d, "1000000003", model.StatusInStock, gt.ID, nil, nil)

	overdue, err := ListOverdue(ctx, d, testTime)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, overdueID, overdue[0].ID)

	n, err := CountOverdueHeldBy(ctx, d, m.ID, testTime)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListGearByHolder(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")
	m := mustMember(t, d, "2000000001")
	other := mustMember(t, d, "2000000002")

	due := testTime.Add(24 * time.Hour)
	insertGear(t, d, "1000000001", model.StatusCheckedOut, gt.ID, &m.ID, &due)
	insertGear(t, d, "1000000002", model.StatusCheckedOut, gt.ID, &other.ID, &due)
	insertGear(t, d, "1000000003", model.StatusInStock, gt.ID, nil, nil)

	held, err := ListGearByHolder(ctx, d, m.ID)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "1000000001", held[0].Tag)
}

func TestGearTagExists(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")

	insertGear(t, d, "1000000001", model.StatusInStock, gt.ID, nil, nil)
	insertGear(t, d, "1000000002", model.StatusRemoved, gt.ID, nil, nil)

	exists, err := GearTagExists(ctx, d, "1000000001")
	require.NoError(t, err)
	assert.True(t, exists)

	// Retired gear no longer owns its tag.
	exists, err = GearTagExists(ctx, d, "1000000002")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRequiredCertifications(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()
	gt := mustGearType(t, d, "Kayak")
	cert, err := CreateCertification(ctx, d, "Kayaking", "")
	require.NoError(t, err)

	id := insertGear(t, d, "1000000001", model.StatusInStock, gt.ID, nil, nil)

	require.NoError(t, RequireCertification(ctx, d, id, cert.ID))
	require.NoError(t, RequireCertification(ctx, d, id, cert.ID)) // idempotent

	certs, err := GetGearRequiredCerts(ctx, d, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{cert.ID}, certs)

	g, err := GetGearByID(ctx, d, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{cert.ID}, g.RequiredCertIDs)
}
