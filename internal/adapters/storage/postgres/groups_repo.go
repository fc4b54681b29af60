package postgres

import (
	"context"
	"database/sql"

	"therapy-track/internal/domain/groups"
)

type GroupsRepo struct {
	db *sql.DB
}

func NewGroupsRepo(db *sql.DB) *GroupsRepo {
	return &GroupsRepo{db: db}
}

func (r *GroupsRepo) Create(ctx context.Context, g groups.Group) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, color, is_reminder_on, reminder_time)
		VALUES ($1,$2,$3,$4,$5)
	`, g.ID, g.Name, g.Color, g.ReminderOn, toNullString(g.ReminderTime))
	return err
}

func (r *GroupsRepo) Update(ctx context.Context, g groups.Group) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE groups
		SET name = $2, color = $3, is_reminder_on = $4, reminder_time = $5
		WHERE id = $1
	`, g.ID, g.Name, g.Color, g.ReminderOn, toNullString(g.ReminderTime))
	if err != nil {
		return err
	}
	return checkAffected(res, "group", g.ID)
}

func (r *GroupsRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, color, is_reminder_on, reminder_time
		FROM groups
		WHERE id = $1
	`, id)
	g, err := scanGroup(row)
	if err != nil {
		return groups.Group{}, notFound(err, "group", id)
	}
	return g, nil
}

func (r *GroupsRepo) List(ctx context.Context) ([]groups.Group, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, is_reminder_on, reminder_time
		FROM groups
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]groups.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GroupsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "group", id)
}

func (r *GroupsRepo) InUse(ctx context.Context, id string) (bool, error) {
	var used bool
	err := r.db.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM doses WHERE group_ = $1)
			OR EXISTS (SELECT 1 FROM unscheduled_dosage_records WHERE group_ = $1)
	`, id).Scan(&used)
	return used, err
}

func scanGroup(s scanner) (groups.Group, error) {
	var (
		g  groups.Group
		rt sql.NullString
	)
	if err := s.Scan(&g.ID, &g.Name, &g.Color, &g.ReminderOn, &rt); err != nil {
		return groups.Group{}, err
	}
	g.ReminderTime = fromNullString(rt)
	return g, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
