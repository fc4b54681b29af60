package postgres

import (
	"context"
	"database/sql"
	"errors"

	"therapy-track/internal/domain/intake"
)

type IntakeRepo struct {
	db *sql.DB
}

func NewIntakeRepo(db *sql.DB) *IntakeRepo {
	return &IntakeRepo{db: db}
}

// ToggleScheduled: borrar-o-insertar en una transacción. El índice único
// (schedule, dose_index, date) resuelve la carrera de dos inserts simultáneos.
func (r *IntakeRepo) ToggleScheduled(ctx context.Context, rec intake.ScheduledRecord) (intake.ToggleResult, error) {
	var out intake.ToggleResult
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM scheduled_dosage_records
			WHERE schedule = $1 AND dose_index = $2 AND date = $3
		`, rec.ScheduleID, rec.DoseIndex, rec.Day)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			out = intake.ToggleResult{Done: false}
			return nil
		}

		var id string
		err = tx.QueryRowContext(ctx, `
			INSERT INTO scheduled_dosage_records (id, record_date, date, schedule, dose_index)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (schedule, dose_index, date) DO NOTHING
			RETURNING id
		`, rec.ID, rec.RecordedAt, rec.Day, rec.ScheduleID, rec.DoseIndex).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			// Otro toggle insertó primero: la dosis ya figura tomada.
			err = tx.QueryRowContext(ctx, `
				SELECT id FROM scheduled_dosage_records
				WHERE schedule = $1 AND dose_index = $2 AND date = $3
			`, rec.ScheduleID, rec.DoseIndex, rec.Day).Scan(&id)
		}
		if err != nil {
			return err
		}
		out = intake.ToggleResult{Done: true, RecordID: id}
		return nil
	})
	return out, err
}

func (r *IntakeRepo) ListScheduled(ctx context.Context, rng intake.Range) ([]intake.ScheduledRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule, dose_index, date, record_date
		FROM scheduled_dosage_records
		WHERE ($1::date IS NULL OR date >= $1::date)
		  AND ($2::date IS NULL OR date <= $2::date)
		ORDER BY date ASC, schedule ASC, dose_index ASC
	`, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]intake.ScheduledRecord, 0)
	for rows.Next() {
		var rec intake.ScheduledRecord
		if err := rows.Scan(&rec.ID, &rec.ScheduleID, &rec.DoseIndex, &rec.Day, &rec.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *IntakeRepo) CreateUnscheduled(ctx context.Context, rec intake.UnscheduledRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO unscheduled_dosage_records (id, record_date, date, medicine, dose_amount, group_)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.ID, rec.RecordedAt, rec.Day, rec.MedicineID, rec.Amount, toNullString(rec.GroupID))
	return err
}

func (r *IntakeRepo) DeleteUnscheduled(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM unscheduled_dosage_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "unscheduled record", id)
}

func (r *IntakeRepo) ListUnscheduled(ctx context.Context, rng intake.Range) ([]intake.UnscheduledRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medicine, dose_amount, date, record_date, group_
		FROM unscheduled_dosage_records
		WHERE ($1::date IS NULL OR date >= $1::date)
		  AND ($2::date IS NULL OR date <= $2::date)
		ORDER BY created_at ASC, id ASC
	`, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]intake.UnscheduledRecord, 0)
	for rows.Next() {
		var (
			rec   intake.UnscheduledRecord
			group sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.MedicineID, &rec.Amount, &rec.Day, &rec.RecordedAt, &group); err != nil {
			return nil, err
		}
		rec.GroupID = fromNullString(group)
		out = append(out, rec)
	}
	return out, rows.Err()
}
