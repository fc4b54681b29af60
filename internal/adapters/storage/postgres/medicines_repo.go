package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"therapy-track/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	ai, err := encodeIngredients(m.ActiveIngredients)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medicines (id, name, base_unit, active_ingredients)
		VALUES ($1,$2,$3,$4)
	`, m.ID, m.Name, string(m.BaseUnit), ai)
	return err
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	ai, err := encodeIngredients(m.ActiveIngredients)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET name = $2, base_unit = $3, active_ingredients = $4
		WHERE id = $1
	`, m.ID, m.Name, string(m.BaseUnit), ai)
	if err != nil {
		return err
	}
	return checkAffected(res, "medicine", m.ID)
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, base_unit, active_ingredients
		FROM medicines
		WHERE id = $1
	`, id)

	m, err := scanMedicine(row)
	if err != nil {
		return medicines.Medicine{}, notFound(err, "medicine", id)
	}
	return m, nil
}

func (r *MedicinesRepo) List(ctx context.Context) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, base_unit, active_ingredients
		FROM medicines
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "medicine", id)
}

func (r *MedicinesRepo) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := r.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM schedules WHERE medicine = $1)
			OR EXISTS (SELECT 1 FROM unscheduled_dosage_records WHERE medicine = $1)
	`, id).Scan(&used)
	return used, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s scanner) (medicines.Medicine, error) {
	var (
		m    medicines.Medicine
		unit string
		ai   []byte
	)
	if err := s.Scan(&m.ID, &m.Name, &unit, &ai); err != nil {
		return medicines.Medicine{}, err
	}
	m.BaseUnit = medicines.BaseUnit(unit)
	if len(ai) > 0 {
		if err := json.Unmarshal(ai, &m.ActiveIngredients); err != nil {
			return medicines.Medicine{}, fmt.Errorf("decoding active_ingredients of %s: %w", m.ID, err)
		}
	}
	return m, nil
}

func encodeIngredients(ai []medicines.ActiveIngredient) (string, error) {
	if ai == nil {
		ai = []medicines.ActiveIngredient{}
	}
	b, err := json.Marshal(ai)
	if err != nil {
		return "", fmt.Errorf("encoding active_ingredients: %w", err)
	}
	return string(b), nil
}
