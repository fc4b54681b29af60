package postgres

import (
	"context"
	"database/sql"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/schedules"
)

type SchedulesRepo struct {
	db *sql.DB
}

func NewSchedulesRepo(db *sql.DB) *SchedulesRepo {
	return &SchedulesRepo{db: db}
}

func (r *SchedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	freq, err := s.Frequency.Encode()
	if err != nil {
		return err
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedules (id, medicine, start_date, end_date, freq)
			VALUES ($1,$2,$3,$4,$5)
		`, s.ID, s.MedicineID, s.Start, s.End, freq); err != nil {
			return err
		}
		for _, d := range s.Doses {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO doses (amount, index_, "offset", group_, schedule)
				VALUES ($1,$2,$3,$4,$5)
			`, d.Amount, d.Index, toNullInt(d.Offset), toNullString(d.GroupID), s.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SchedulesRepo) UpdateDates(ctx context.Context, id string, start calendar.Day, end *calendar.Day) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE schedules SET start_date = $2, end_date = $3 WHERE id = $1
	`, id, start, end)
	if err != nil {
		return err
	}
	return checkAffected(res, "schedule", id)
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, medicine, start_date, end_date, freq
		FROM schedules
		WHERE id = $1
	`, id)
	s, err := scanSchedule(row)
	if err != nil {
		return schedules.Schedule{}, notFound(err, "schedule", id)
	}

	doses, err := r.loadDoses(ctx, `WHERE schedule = $1`, id)
	if err != nil {
		return schedules.Schedule{}, err
	}
	s.Doses = doses[id]
	return s, nil
}

func (r *SchedulesRepo) List(ctx context.Context) ([]schedules.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, medicine, start_date, end_date, freq
		FROM schedules
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedules.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doses, err := r.loadDoses(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Doses = doses[out[i].ID]
	}
	return out, nil
}

// Delete: registros programados, dosis y schedule en una sola transacción.
func (r *SchedulesRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_dosage_records WHERE schedule = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM doses WHERE schedule = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return checkAffected(res, "schedule", id)
	})
}

// loadDoses devuelve las dosis por schedule, ordenadas por índice.
func (r *SchedulesRepo) loadDoses(ctx context.Context, where string, args ...any) (map[string][]schedules.Dose, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT schedule, amount, index_, "offset", group_
		FROM doses `+where+`
		ORDER BY schedule, index_
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]schedules.Dose)
	for rows.Next() {
		var (
			scheduleID string
			d          schedules.Dose
			offset     sql.NullInt64
			group      sql.NullString
		)
		if err := rows.Scan(&scheduleID, &d.Amount, &d.Index, &offset, &group); err != nil {
			return nil, err
		}
		d.Offset = fromNullInt(offset)
		d.GroupID = fromNullString(group)
		out[scheduleID] = append(out[scheduleID], d)
	}
	return out, rows.Err()
}

func scanSchedule(s scanner) (schedules.Schedule, error) {
	var (
		sc   schedules.Schedule
		end  calendar.Day
		freq string
	)
	if err := s.Scan(&sc.ID, &sc.MedicineID, &sc.Start, &end, &freq); err != nil {
		return schedules.Schedule{}, err
	}
	if !end.IsZero() {
		sc.End = &end
	}
	f, err := frequency.Decode(freq)
	if err != nil {
		return schedules.Schedule{}, err
	}
	sc.Frequency = f
	return sc, nil
}

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
