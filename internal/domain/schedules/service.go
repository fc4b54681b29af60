package schedules

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/platform/apperr"
	"therapy-track/internal/platform/logger"
)

// MedicineCatalog es lo que necesita este módulo de medicines.Service.
type MedicineCatalog interface {
	Get(ctx context.Context, id string) (medicines.Medicine, error)
	Create(ctx context.Context, in medicines.Input) (medicines.Medicine, error)
}

type GroupLookup interface {
	Get(ctx context.Context, id string) (groups.Group, error)
}

type Service struct {
	repo      Repository
	medicines MedicineCatalog
	groups    GroupLookup
	sync      groups.ReminderSync
	log       logger.Logger
}

func NewService(repo Repository, meds MedicineCatalog, grps GroupLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		medicines: meds,
		groups:    grps,
		log:       log.With(map[string]any{"module": "schedules"}),
	}
}

// UseReminderSync hace que crear, borrar o mover un schedule reconcilie los
// recordatorios de los grupos de sus dosis.
func (s *Service) UseReminderSync(rs groups.ReminderSync) { s.sync = rs }

type DoseInput struct {
	Amount  float64
	Offset  *int
	GroupID *string
}

type Input struct {
	MedicineID string
	Start      calendar.Day
	End        *calendar.Day
	Frequency  frequency.Label
	Doses      []DoseInput // en orden; el índice es la posición
}

func (s *Service) Create(ctx context.Context, in Input) (Schedule, error) {
	sch, err := s.build(ctx, in)
	if err != nil {
		return Schedule{}, err
	}

	if err := s.repo.Create(ctx, sch); err != nil {
		return Schedule{}, err
	}
	s.log.Info("schedule created", map[string]any{
		"schedule_id": sch.ID,
		"medicine_id": sch.MedicineID,
		"start":       sch.Start.String(),
		"doses":       len(sch.Doses),
	})
	s.syncGroups(ctx, sch)
	return sch, nil
}

// CreateWithMedicine inserta el medicamento y luego el schedule que lo referencia.
// No hay rollback: si falla el segundo paso el medicamento queda creado y se
// devuelve junto con el error.
func (s *Service) CreateWithMedicine(ctx context.Context, med medicines.Input, in Input) (medicines.Medicine, Schedule, error) {
	m, err := s.medicines.Create(ctx, med)
	if err != nil {
		return medicines.Medicine{}, Schedule{}, err
	}

	in.MedicineID = m.ID
	sch, err := s.Create(ctx, in)
	if err != nil {
		s.log.Warn("schedule insert failed after medicine insert", map[string]any{
			"medicine_id": m.ID,
			"error":       err,
		})
		return m, Schedule{}, fmt.Errorf("medicine %s created but schedule failed: %w", m.ID, err)
	}
	return m, sch, nil
}

// UpdateDates es la edición parcial: solo inicio y fin.
func (s *Service) UpdateDates(ctx context.Context, id string, start calendar.Day, end *calendar.Day) (Schedule, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if err := validateRange(start, end); err != nil {
		return Schedule{}, err
	}

	if err := s.repo.UpdateDates(ctx, id, start, end); err != nil {
		return Schedule{}, err
	}
	current.Start = start
	current.End = end

	s.log.Info("schedule dates updated", map[string]any{"schedule_id": id, "start": start.String(), "end": dayOrEmpty(end)})
	s.syncGroups(ctx, current)
	return current, nil
}

func (s *Service) Get(ctx context.Context, id string) (Schedule, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Schedule{}, apperr.NotFound("schedule", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Schedule, error) {
	return s.repo.List(ctx)
}

// Delete borra en cascada dosis y registros programados.
func (s *Service) Delete(ctx context.Context, id string) error {
	sch, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("schedule deleted", map[string]any{"schedule_id": id})
	s.syncGroups(ctx, sch)
	return nil
}

// syncGroups no falla la operación: el cambio ya está guardado y el re-armado
// de medianoche vuelve a reconciliar.
func (s *Service) syncGroups(ctx context.Context, sch Schedule) {
	ids := sch.GroupIDs()
	if s.sync == nil || len(ids) == 0 {
		return
	}
	if err := s.sync.SyncGroups(ctx, ids...); err != nil {
		s.log.Warn("reminder sync failed", map[string]any{
			"schedule_id": sch.ID,
			"groups":      ids,
			"error":       err,
		})
	}
}

func (s *Service) build(ctx context.Context, in Input) (Schedule, error) {
	f := apperr.Fields{}

	medicineID := strings.TrimSpace(in.MedicineID)
	f.Check("medicine_id", medicineID != "")
	f.Check("start_date", !in.Start.IsZero())
	f.Check("frequency", in.Frequency.Valid())

	var freq frequency.Frequency
	if in.Frequency.Valid() {
		expanded, err := frequency.Expand(in.Frequency)
		if err != nil {
			return Schedule{}, err
		}
		freq = expanded
		f.Check("doses", len(in.Doses) == freq.NumberOfDoses)
	}
	for _, d := range in.Doses {
		f.Check("doses.amount", !math.IsNaN(d.Amount) && !math.IsInf(d.Amount, 0) && d.Amount > 0)
	}
	if err := f.Err(); err != nil {
		return Schedule{}, err
	}
	if err := validateRange(in.Start, in.End); err != nil {
		return Schedule{}, err
	}

	if _, err := s.medicines.Get(ctx, medicineID); err != nil {
		return Schedule{}, asReference(err, "schedule references unknown medicine %q", medicineID)
	}

	sch := Schedule{
		ID:         uuid.NewString(),
		MedicineID: medicineID,
		Start:      in.Start,
		End:        in.End,
		Frequency:  freq,
		Doses:      make([]Dose, 0, len(in.Doses)),
	}
	for i, d := range in.Doses {
		groupID := normalizeID(d.GroupID)
		if groupID != nil {
			if _, err := s.groups.Get(ctx, *groupID); err != nil {
				return Schedule{}, asReference(err, "dose %d references unknown group %q", i, *groupID)
			}
		}
		sch.Doses = append(sch.Doses, Dose{
			Amount:  d.Amount,
			Index:   i,
			Offset:  d.Offset,
			GroupID: groupID,
		})
	}
	return sch, nil
}

func validateRange(start calendar.Day, end *calendar.Day) error {
	f := apperr.Fields{}
	f.Check("start_date", !start.IsZero())
	if end != nil && !start.IsZero() {
		f.Check("start_date", !end.Before(start))
	}
	return f.Err()
}

// asReference convierte NOT_FOUND del lookup en error referencial; el resto se propaga.
func asReference(err error, format string, args ...any) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Reference(format, args...)
	}
	return err
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

func dayOrEmpty(d *calendar.Day) string {
	if d == nil {
		return ""
	}
	return d.String()
}
