package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Setting keys for the durable policy knobs.
const (
	SettingDueDays      = "due_period_days"
	SettingGraceDays    = "grace_period_days"
	SettingEnforceHolds = "enforce_overdue_holds"
)

// GetSetting returns a setting value and whether it was present.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a setting, replacing any existing value.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// GetIntSetting returns a setting parsed as an integer, or the default if
// absent or malformed.
func GetIntSetting(ctx context.Context, db *sql.DB, key string, def int) (int, error) {
	raw, ok, err := GetSetting(ctx, db, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, nil
	}
	return n, nil
}

// GetBoolSetting returns a setting parsed as a boolean, or the default if
// absent or malformed.
func GetBoolSetting(ctx context.Context, db *sql.DB, key string, def bool) (bool, error) {
	raw, ok, err := GetSetting(ctx, db, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, nil
	}
	return b, nil
}
