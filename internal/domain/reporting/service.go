package reporting

import (
	"context"

	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
)

type IntakeReader interface {
	QueryByRange(ctx context.Context, r intake.Range) (intake.Records, error)
}

type ScheduleLister interface {
	List(ctx context.Context) ([]schedules.Schedule, error)
}

type MedicineCatalog interface {
	Catalog(ctx context.Context) (map[string]medicines.Medicine, error)
}

type Service struct {
	intake    IntakeReader
	schedules ScheduleLister
	medicines MedicineCatalog
}

func NewService(in IntakeReader, sch ScheduleLister, meds MedicineCatalog) *Service {
	return &Service{intake: in, schedules: sch, medicines: meds}
}

func (s *Service) Aggregate(ctx context.Context, r intake.Range) (Totals, error) {
	recs, err := s.intake.QueryByRange(ctx, r)
	if err != nil {
		return nil, err
	}
	all, err := s.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]schedules.Schedule, len(all))
	for _, sch := range all {
		byID[sch.ID] = sch
	}
	catalog, err := s.medicines.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(recs.Scheduled, recs.Unscheduled, byID, catalog)
}

func (s *Service) Table(ctx context.Context, r intake.Range) (Table, error) {
	totals, err := s.Aggregate(ctx, r)
	if err != nil {
		return Table{}, err
	}
	return totals.Table(), nil
}
