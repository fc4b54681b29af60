package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/due"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/platform/logger"
	"therapy-track/internal/ports/notify"
)

type DayResolver interface {
	On(ctx context.Context, day calendar.Day) (due.DueSet, error)
}

type Toggler interface {
	ToggleScheduled(ctx context.Context, scheduleID string, doseIndex int, day calendar.Day) (intake.ToggleResult, error)
}

type GroupReader interface {
	Get(ctx context.Context, id string) (groups.Group, error)
	List(ctx context.Context) ([]groups.Group, error)
}

// Recorder recibe contadores de toggles y acciones de recordatorio (métricas).
type Recorder interface {
	DoseToggled(done bool)
	ReminderAction(action string)
}

// Inspector expone lo que hay armado en el programador (opcional).
type Inspector interface {
	Scheduled() []string
	Next(groupID string) (time.Time, bool)
}

type nopRecorder struct{}

func (nopRecorder) DoseToggled(bool)      {}
func (nopRecorder) ReminderAction(string) {}

type Service struct {
	days     DayResolver
	toggler  Toggler
	groups   GroupReader
	notifier notify.Notifier
	insp     Inspector
	rec      Recorder
	log      logger.Logger
	loc      *time.Location
	now      func() time.Time
}

type Options struct {
	Days      DayResolver
	Toggler   Toggler
	Groups    GroupReader
	Notifier  notify.Notifier
	Inspector Inspector // nil => GET /reminders devuelve lista vacía
	Recorder  Recorder
	Logger    logger.Logger
	Location  *time.Location
}

func NewService(opts Options) *Service {
	s := &Service{
		days:     opts.Days,
		toggler:  opts.Toggler,
		groups:   opts.Groups,
		notifier: opts.Notifier,
		insp:     opts.Inspector,
		rec:      opts.Recorder,
		log:      opts.Logger,
		loc:      opts.Location,
		now:      time.Now,
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	if s.rec == nil {
		s.rec = nopRecorder{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With(map[string]any{"module": "reminders"})
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Outcome es el resultado de un toggle visto por el tracker.
type Outcome struct {
	Done          bool
	RecordID      string
	GroupID       *string
	GroupComplete bool
	Transition    Transition
}

// ToggleScheduled alterna la dosis y reevalúa su grupo. Al completarse el grupo
// se suprime el recordatorio; al reabrirse se rearma si aún no pasó la hora.
func (s *Service) ToggleScheduled(ctx context.Context, scheduleID string, doseIndex int, day calendar.Day) (Outcome, error) {
	before, err := s.days.On(ctx, day)
	if err != nil {
		return Outcome{}, err
	}

	res, err := s.toggler.ToggleScheduled(ctx, scheduleID, doseIndex, day)
	if err != nil {
		return Outcome{}, err
	}
	s.rec.DoseToggled(res.Done)

	out := Outcome{Done: res.Done, RecordID: res.RecordID}

	// Fuera del rango del schedule la dosis no está en el set: no hay grupo que evaluar.
	dose, ok := before.Find(scheduleID, doseIndex)
	if !ok || dose.GroupID == nil {
		return out, nil
	}
	groupID := *dose.GroupID
	out.GroupID = &groupID

	after, err := s.days.On(ctx, day)
	if err != nil {
		return Outcome{}, err
	}
	out.Transition = Evaluate(before, after, groupID)
	out.GroupComplete = IsGroupComplete(after, groupID)

	if err := s.apply(ctx, groupID, day, out.Transition); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (s *Service) apply(ctx context.Context, groupID string, day calendar.Day, t Transition) error {
	if t == TransitionNone {
		return nil
	}
	g, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.ReminderOn {
		return nil
	}

	switch t {
	case TransitionCompleted:
		// El recordatorio programado es el de hoy; completar otro día no lo toca.
		if !s.isToday(day) {
			return nil
		}
		if err := s.notifier.CancelReminder(ctx, g.ID); err != nil {
			return fmt.Errorf("suppress reminder for group %s: %w", g.ID, err)
		}
		s.rec.ReminderAction("suppressed")
		s.log.Info("reminder suppressed", map[string]any{"group_id": g.ID, "day": day.String()})

	case TransitionReopened:
		if !s.pendingToday(g, day) {
			return nil
		}
		if err := s.notifier.ScheduleReminder(ctx, g.ID, g.Name, *g.ReminderTime); err != nil {
			return fmt.Errorf("re-arm reminder for group %s: %w", g.ID, err)
		}
		s.rec.ReminderAction("rearmed")
		s.log.Info("reminder re-armed", map[string]any{"group_id": g.ID, "day": day.String(), "at": *g.ReminderTime})
	}
	return nil
}

// pendingToday: el día es hoy y la hora del recordatorio todavía no pasó.
func (s *Service) pendingToday(g groups.Group, day calendar.Day) bool {
	h, m, ok := g.HourMinute()
	if !ok {
		return false
	}
	if !s.isToday(day) {
		return false
	}
	return s.now().In(s.loc).Before(day.At(h, m, s.loc))
}

func (s *Service) isToday(day calendar.Day) bool {
	return calendar.Of(s.now().In(s.loc)) == day
}

// RearmResult lista qué grupos quedaron programados o cancelados.
type RearmResult struct {
	Scheduled []string
	Cancelled []string
}

// RearmDay sincroniza los recordatorios con el estado del día: grupos con
// dosis pendientes se programan, los completos se cancelan.
func (s *Service) RearmDay(ctx context.Context, day calendar.Day) (RearmResult, error) {
	set, err := s.days.On(ctx, day)
	if err != nil {
		return RearmResult{}, err
	}
	list, err := s.groups.List(ctx)
	if err != nil {
		return RearmResult{}, err
	}

	buckets := set.ByGroup()
	var out RearmResult
	for _, g := range list {
		if !g.ReminderOn || g.ReminderTime == nil {
			continue
		}
		armed, err := s.reconcile(ctx, g, buckets)
		if err != nil {
			return out, err
		}
		if armed {
			out.Scheduled = append(out.Scheduled, g.ID)
		} else {
			out.Cancelled = append(out.Cancelled, g.ID)
		}
	}

	s.log.Info("reminders re-armed for day", map[string]any{
		"day":       day.String(),
		"scheduled": len(out.Scheduled),
		"cancelled": len(out.Cancelled),
	})
	return out, nil
}

// SyncGroups aplica la regla de RearmDay, para hoy, solo a los grupos dados.
// Se llama después de cambios que no pasan por un toggle: guardar un grupo,
// crear/borrar un schedule o editar sus fechas.
func (s *Service) SyncGroups(ctx context.Context, groupIDs ...string) error {
	if len(groupIDs) == 0 {
		return nil
	}
	set, err := s.days.On(ctx, calendar.Today(s.now(), s.loc))
	if err != nil {
		return err
	}
	buckets := set.ByGroup()

	seen := map[string]struct{}{}
	for _, id := range groupIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		g, err := s.groups.Get(ctx, id)
		if err != nil {
			return err
		}
		if !g.ReminderOn || g.ReminderTime == nil {
			if err := s.notifier.CancelReminder(ctx, g.ID); err != nil {
				return fmt.Errorf("cancel reminder for group %s: %w", g.ID, err)
			}
			continue
		}
		armed, err := s.reconcile(ctx, g, buckets)
		if err != nil {
			return err
		}
		s.log.Debug("group reminder synced", map[string]any{"group_id": g.ID, "armed": armed})
	}
	return nil
}

// reconcile: grupo completo hoy => cancelado; con dosis pendientes => programado.
// g debe tener el recordatorio activo.
func (s *Service) reconcile(ctx context.Context, g groups.Group, buckets due.Buckets) (bool, error) {
	if buckets.Get(g.ID).Complete() {
		if err := s.notifier.CancelReminder(ctx, g.ID); err != nil {
			return false, fmt.Errorf("cancel reminder for group %s: %w", g.ID, err)
		}
		return false, nil
	}
	if err := s.notifier.ScheduleReminder(ctx, g.ID, g.Name, *g.ReminderTime); err != nil {
		return false, fmt.Errorf("schedule reminder for group %s: %w", g.ID, err)
	}
	return true, nil
}

// RearmToday es el job de medianoche / arranque.
func (s *Service) RearmToday(ctx context.Context) (RearmResult, error) {
	return s.RearmDay(ctx, calendar.Today(s.now(), s.loc))
}

// Armed es un recordatorio programado con su próximo disparo.
type Armed struct {
	GroupID string
	Name    string
	At      string
	Next    time.Time
}

// Armed lista los recordatorios programados, por próximo disparo.
func (s *Service) Armed(ctx context.Context) ([]Armed, error) {
	if s.insp == nil {
		return []Armed{}, nil
	}
	ids := s.insp.Scheduled()
	out := make([]Armed, 0, len(ids))
	for _, id := range ids {
		next, ok := s.insp.Next(id)
		if !ok {
			continue
		}
		g, err := s.groups.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		a := Armed{GroupID: id, Name: g.Name, Next: next.In(s.loc)}
		if g.ReminderTime != nil {
			a.At = *g.ReminderTime
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Next.Equal(out[j].Next) {
			return out[i].Next.Before(out[j].Next)
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}
