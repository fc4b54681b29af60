package memory

import (
	"context"
	"errors"
	"strings"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

type scheduleRepo struct {
	db *DB
}

func NewScheduleRepo(db *DB) schedules.Repository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, s schedules.Schedule) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.db.schedules[s.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.db.schedules[s.ID] = row[schedules.Schedule]{seq: r.db.next(), v: cloneSchedule(s)}
	return nil
}

func (r *scheduleRepo) UpdateDates(ctx context.Context, id string, start calendar.Day, end *calendar.Day) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, ok := r.db.schedules[id]
	if !ok {
		return apperr.NotFound("schedule", id)
	}
	current.v.Start = start
	current.v.End = nil
	if end != nil {
		e := *end
		current.v.End = &e
	}
	r.db.schedules[id] = current
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.schedules[id]
	if !ok {
		return schedules.Schedule{}, apperr.NotFound("schedule", id)
	}
	return cloneSchedule(s.v), nil
}

func (r *scheduleRepo) List(ctx context.Context) ([]schedules.Schedule, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := sortedValues(r.db.schedules)
	for i := range out {
		out[i] = cloneSchedule(out[i])
	}
	return out, nil
}

// Delete quita el schedule y sus registros programados bajo el mismo lock.
func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.schedules[id]; !ok {
		return apperr.NotFound("schedule", id)
	}
	for k := range r.db.scheduled {
		if k.ScheduleID == id {
			delete(r.db.scheduled, k)
		}
	}
	delete(r.db.schedules, id)
	return nil
}
