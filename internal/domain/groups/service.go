package groups

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"therapy-track/internal/platform/apperr"
	"therapy-track/internal/platform/logger"
	"therapy-track/internal/ports/notify"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Defaults se crean cuando el store no tiene ningún grupo.
var Defaults = []Group{
	{Name: "Morning", Color: "#FFFF64FF"},
	{Name: "Afternoon", Color: "#30C82DFF"},
	{Name: "Evening", Color: "#2F39C9FF"},
}

// ReminderSync reconcilia el recordatorio de cada grupo con el estado de hoy.
type ReminderSync interface {
	SyncGroups(ctx context.Context, groupIDs ...string) error
}

type Service struct {
	repo     Repository
	notifier notify.Notifier
	sync     ReminderSync
	log      logger.Logger
}

func NewService(repo Repository, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log.With(map[string]any{"module": "groups"}),
	}
}

// UseReminderSync reemplaza el armado directo del recordatorio al guardar.
// Se conecta después de construir el servicio de recordatorios, que depende de este.
func (s *Service) UseReminderSync(rs ReminderSync) { s.sync = rs }

type Input struct {
	Name         string
	Color        string
	ReminderOn   bool
	ReminderTime *string
}

func (in Input) Validate() (Group, error) {
	f := apperr.Fields{}

	name := strings.TrimSpace(in.Name)
	f.Check("name", name != "")

	color := strings.TrimSpace(in.Color)
	f.Check("color", colorPattern.MatchString(color))

	g := Group{Name: name, Color: strings.ToUpper(color), ReminderOn: in.ReminderOn}

	// Con el recordatorio apagado la hora se descarta.
	if in.ReminderOn {
		if in.ReminderTime == nil {
			f.Flag("reminder_time")
		} else if h, m, err := parseClock(*in.ReminderTime); err != nil {
			f.Flag("reminder_time")
		} else {
			at := formatClock(h, m)
			g.ReminderTime = &at
		}
	}

	if err := f.Err(); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Group, error) {
	g, err := in.Validate()
	if err != nil {
		return Group{}, err
	}
	g.ID = uuid.NewString()

	if err := s.repo.Create(ctx, g); err != nil {
		return Group{}, err
	}
	s.log.Info("group created", map[string]any{"group_id": g.ID, "name": g.Name})

	if err := s.syncReminder(ctx, g); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Group, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Group{}, err
	}
	g, err := in.Validate()
	if err != nil {
		return Group{}, err
	}
	g.ID = id

	if err := s.repo.Update(ctx, g); err != nil {
		return Group{}, err
	}
	s.log.Info("group updated", map[string]any{"group_id": g.ID, "reminder_on": g.ReminderOn})

	if err := s.syncReminder(ctx, g); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, id string) (Group, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Group{}, apperr.NotFound("group", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	inUse, err := s.repo.InUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		s.log.Warn("group delete refused", map[string]any{"group_id": id, "reason": "in use"})
		return apperr.InUse("group", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("group deleted", map[string]any{"group_id": id})

	if err := s.notifier.CancelReminder(ctx, id); err != nil {
		return fmt.Errorf("cancel reminder for group %s: %w", id, err)
	}
	return nil
}

// EnsureDefaults siembra Morning/Afternoon/Evening en un store vacío.
func (s *Service) EnsureDefaults(ctx context.Context) ([]Group, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	out := make([]Group, 0, len(Defaults))
	for _, d := range Defaults {
		g := d
		g.ID = uuid.NewString()
		if err := s.repo.Create(ctx, g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	s.log.Info("default groups created", map[string]any{"count": len(out)})
	return out, nil
}

func (s *Service) syncReminder(ctx context.Context, g Group) error {
	if s.sync != nil {
		return s.sync.SyncGroups(ctx, g.ID)
	}
	if g.ReminderOn && g.ReminderTime != nil {
		if err := s.notifier.ScheduleReminder(ctx, g.ID, g.Name, *g.ReminderTime); err != nil {
			return fmt.Errorf("schedule reminder for group %s: %w", g.ID, err)
		}
		return nil
	}
	if err := s.notifier.CancelReminder(ctx, g.ID); err != nil {
		return fmt.Errorf("cancel reminder for group %s: %w", g.ID, err)
	}
	return nil
}

// parseClock acepta "H:MM" y "HH:MM" en 24h.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
