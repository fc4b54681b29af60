package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"therapy-track/internal/domain/intake"
	"therapy-track/internal/platform/apperr"
)

type intakeRepo struct {
	db *DB
}

func NewIntakeRepo(db *DB) intake.Repository {
	return &intakeRepo{db: db}
}

// ToggleScheduled: chequeo y escritura bajo el mismo lock, nunca dos registros por Key.
func (r *intakeRepo) ToggleScheduled(ctx context.Context, rec intake.ScheduledRecord) (intake.ToggleResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	k := rec.Key()
	if _, exists := r.db.scheduled[k]; exists {
		delete(r.db.scheduled, k)
		return intake.ToggleResult{Done: false}, nil
	}
	if strings.TrimSpace(rec.ID) == "" {
		return intake.ToggleResult{}, errors.New("record id required")
	}
	r.db.scheduled[k] = rec
	return intake.ToggleResult{Done: true, RecordID: rec.ID}, nil
}

func (r *intakeRepo) ListScheduled(ctx context.Context, rng intake.Range) ([]intake.ScheduledRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]intake.ScheduledRecord, 0)
	for _, rec := range r.db.scheduled {
		if rng.Contains(rec.Day) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Day.Compare(out[j].Day); c != 0 {
			return c < 0
		}
		if out[i].ScheduleID != out[j].ScheduleID {
			return out[i].ScheduleID < out[j].ScheduleID
		}
		return out[i].DoseIndex < out[j].DoseIndex
	})
	return out, nil
}

func (r *intakeRepo) CreateUnscheduled(ctx context.Context, rec intake.UnscheduledRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if _, exists := r.db.unscheduled[rec.ID]; exists {
		return errors.New("record already exists")
	}
	rec.GroupID = cloneString(rec.GroupID)
	r.db.unscheduled[rec.ID] = row[intake.UnscheduledRecord]{seq: r.db.next(), v: rec}
	return nil
}

func (r *intakeRepo) DeleteUnscheduled(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.unscheduled[id]; !ok {
		return apperr.NotFound("unscheduled record", id)
	}
	delete(r.db.unscheduled, id)
	return nil
}

func (r *intakeRepo) ListUnscheduled(ctx context.Context, rng intake.Range) ([]intake.UnscheduledRecord, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]intake.UnscheduledRecord, 0)
	for _, rec := range sortedValues(r.db.unscheduled) {
		if rng.Contains(rec.Day) {
			rec.GroupID = cloneString(rec.GroupID)
			out = append(out, rec)
		}
	}
	return out, nil
}
