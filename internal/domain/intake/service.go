package intake

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
	"therapy-track/internal/platform/logger"
)

type ScheduleLookup interface {
	Get(ctx context.Context, id string) (schedules.Schedule, error)
}

type MedicineLookup interface {
	Get(ctx context.Context, id string) (medicines.Medicine, error)
}

type GroupLookup interface {
	Get(ctx context.Context, id string) (groups.Group, error)
}

type Service struct {
	repo      Repository
	schedules ScheduleLookup
	medicines MedicineLookup
	groups    GroupLookup
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, sch ScheduleLookup, meds MedicineLookup, grps GroupLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		schedules: sch,
		medicines: meds,
		groups:    grps,
		log:       log.With(map[string]any{"module": "intake"}),
		now:       time.Now,
	}
}

// ToggleScheduled alterna tomada/no tomada para (schedule, índice, día).
// Un índice fuera del set de dosis es un error referencial.
func (s *Service) ToggleScheduled(ctx context.Context, scheduleID string, doseIndex int, day calendar.Day) (ToggleResult, error) {
	if day.IsZero() {
		return ToggleResult{}, apperr.Fields{"day": true}.Err()
	}
	sch, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return ToggleResult{}, asReference(err, "toggle references unknown schedule %q", scheduleID)
	}
	if _, ok := sch.Dose(doseIndex); !ok {
		return ToggleResult{}, apperr.Reference("schedule %q has no dose with index %d", scheduleID, doseIndex)
	}

	res, err := s.repo.ToggleScheduled(ctx, ScheduledRecord{
		ID:         uuid.NewString(),
		ScheduleID: sch.ID,
		DoseIndex:  doseIndex,
		Day:        day,
		RecordedAt: s.now().UTC(),
	})
	if err != nil {
		return ToggleResult{}, err
	}

	s.log.Info("dose toggled", map[string]any{
		"schedule_id": sch.ID,
		"dose_index":  doseIndex,
		"day":         day.String(),
		"done":        res.Done,
	})
	return res, nil
}

type UnscheduledInput struct {
	MedicineID string
	Amount     float64
	Day        calendar.Day
	GroupID    *string
}

// RecordUnscheduled siempre inserta un registro nuevo (no es un toggle).
func (s *Service) RecordUnscheduled(ctx context.Context, in UnscheduledInput) (UnscheduledRecord, error) {
	f := apperr.Fields{}
	medicineID := strings.TrimSpace(in.MedicineID)
	f.Check("medicine_id", medicineID != "")
	f.Check("amount", !math.IsNaN(in.Amount) && !math.IsInf(in.Amount, 0) && in.Amount > 0)
	f.Check("day", !in.Day.IsZero())
	if err := f.Err(); err != nil {
		return UnscheduledRecord{}, err
	}

	if _, err := s.medicines.Get(ctx, medicineID); err != nil {
		return UnscheduledRecord{}, asReference(err, "unscheduled record references unknown medicine %q", medicineID)
	}

	var groupID *string
	if in.GroupID != nil && strings.TrimSpace(*in.GroupID) != "" {
		id := strings.TrimSpace(*in.GroupID)
		if _, err := s.groups.Get(ctx, id); err != nil {
			return UnscheduledRecord{}, asReference(err, "unscheduled record references unknown group %q", id)
		}
		groupID = &id
	}

	rec := UnscheduledRecord{
		ID:         uuid.NewString(),
		MedicineID: medicineID,
		Amount:     in.Amount,
		Day:        in.Day,
		RecordedAt: s.now().UTC(),
		GroupID:    groupID,
	}
	if err := s.repo.CreateUnscheduled(ctx, rec); err != nil {
		return UnscheduledRecord{}, err
	}
	s.log.Info("unscheduled intake recorded", map[string]any{"record_id": rec.ID, "medicine_id": medicineID, "day": rec.Day.String()})
	return rec, nil
}

func (s *Service) DeleteUnscheduled(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.NotFound("unscheduled record", id)
	}
	if err := s.repo.DeleteUnscheduled(ctx, id); err != nil {
		return err
	}
	s.log.Info("unscheduled intake deleted", map[string]any{"record_id": id})
	return nil
}

// Records agrupa ambos tipos de registro de un rango.
type Records struct {
	Scheduled   []ScheduledRecord
	Unscheduled []UnscheduledRecord
}

func (s *Service) QueryByRange(ctx context.Context, r Range) (Records, error) {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return Records{}, apperr.Fields{"from": true}.Err()
	}

	scheduled, err := s.repo.ListScheduled(ctx, r)
	if err != nil {
		return Records{}, err
	}
	unscheduled, err := s.repo.ListUnscheduled(ctx, r)
	if err != nil {
		return Records{}, err
	}
	return Records{Scheduled: scheduled, Unscheduled: unscheduled}, nil
}

// TakenOn devuelve el índice de tomas programadas y los registros puntuales del día.
func (s *Service) TakenOn(ctx context.Context, day calendar.Day) (TakenSet, []UnscheduledRecord, error) {
	recs, err := s.QueryByRange(ctx, SingleDay(day))
	if err != nil {
		return nil, nil, err
	}
	return NewTakenSet(recs.Scheduled), recs.Unscheduled, nil
}

func asReference(err error, format string, args ...any) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Reference(format, args...)
	}
	return err
}
