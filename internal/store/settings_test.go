package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRoundTrip(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()

	_, ok, err := GetSetting(ctx, d, SettingDueDays)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetSetting(ctx, d, SettingDueDays, "14"))
	value, ok, err := GetSetting(ctx, d, SettingDueDays)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "14", value)

	// Upsert replaces.
	require.NoError(t, SetSetting(ctx, d, SettingDueDays, "10"))
	value, _, err = GetSetting(ctx, d, SettingDueDays)
	require.NoError(t, err)
	assert.Equal(t, "10", value)
}

func TestTypedSettings(t *testing.T) {
	d := newStoreDB(t)
	ctx := context.Background()

	n, err := GetIntSetting(ctx, d, SettingGraceDays, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, SetSetting(ctx, d, SettingGraceDays, "5"))
	n, err = GetIntSetting(ctx, d, SettingGraceDays, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Malformed values fall back to the default.
	require.NoError(t, SetSetting(ctx, d, SettingGraceDays, "soon"))
	n, err = GetIntSetting(ctx, d, SettingGraceDays, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, err := GetBoolSetting(ctx, d, SettingEnforceHolds, false)
	require.NoError(t, err)
	assert.False(t, b)

	require.NoError(t, SetSetting(ctx, d, SettingEnforceHolds, "true"))
	b, err = GetBoolSetting(ctx, d, SettingEnforceHolds, false)
	require.NoError(t, err)
	assert.True(t, b)
}
