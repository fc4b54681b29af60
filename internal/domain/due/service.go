package due

import (
	"context"
	"time"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
)

type ScheduleLister interface {
	List(ctx context.Context) ([]schedules.Schedule, error)
}

type MedicineCatalog interface {
	Catalog(ctx context.Context) (map[string]medicines.Medicine, error)
}

type IntakeReader interface {
	TakenOn(ctx context.Context, day calendar.Day) (intake.TakenSet, []intake.UnscheduledRecord, error)
}

// Service lee las entradas del resolver y arma el DueSet de un día.
type Service struct {
	schedules ScheduleLister
	medicines MedicineCatalog
	intake    IntakeReader
	loc       *time.Location
	now       func() time.Time
}

func NewService(sch ScheduleLister, meds MedicineCatalog, in IntakeReader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		schedules: sch,
		medicines: meds,
		intake:    in,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Service) On(ctx context.Context, day calendar.Day) (DueSet, error) {
	all, err := s.schedules.List(ctx)
	if err != nil {
		return DueSet{}, err
	}
	catalog, err := s.medicines.Catalog(ctx)
	if err != nil {
		return DueSet{}, err
	}
	taken, unscheduled, err := s.intake.TakenOn(ctx, day)
	if err != nil {
		return DueSet{}, err
	}
	return DueDosesOn(day, all, catalog, taken, unscheduled)
}

// Today es el día local en la zona configurada.
func (s *Service) Today() calendar.Day {
	return calendar.Today(s.now(), s.loc)
}

func (s *Service) Location() *time.Location { return s.loc }
