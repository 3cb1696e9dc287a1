package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clubtools/gearshed/internal/model"
)

// CreateGearType creates a gear category.
func CreateGearType(ctx context.Context, db *sql.DB, name, department, description string) (*model.GearType, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO gear_types (name, department, description) VALUES (?, ?, ?)`,
		name, department, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating gear type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting gear type id: %w", err)
	}

	return GetGearType(ctx, db, id)
}

// GetGearType returns a gear type by ID.
func GetGearType(ctx context.Context, db *sql.DB, id int64) (*model.GearType, error) {
	t := &model.GearType{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, department, description FROM gear_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Department, &t.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting gear type: %w", err)
	}
	return t, nil
}

// ListGearTypes returns all gear types.
func ListGearTypes(ctx context.Context, db *sql.DB) ([]model.GearType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, department, description FROM gear_types ORDER BY department, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing gear types: %w", err)
	}
	defer rows.Close()

	var types []model.GearType
	for rows.Next() {
		var t model.GearType
		if err := rows.Scan(&t.ID, &t.Name, &t.Department, &t.Description); err != nil {
			return nil, fmt.Errorf("scanning gear type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
