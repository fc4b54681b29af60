// Package cronsched implementa notify.Notifier con un cron diario por grupo.
package cronsched

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"therapy-track/internal/platform/logger"
	"therapy-track/internal/ports/notify"
)

const sendTimeout = 30 * time.Second

type Scheduler struct {
	cron   *cron.Cron
	sender notify.Sender
	log    logger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID // groupID -> entry
}

func New(loc *time.Location, sender notify.Sender, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.Recover(cronLogger{log: log})),
	)
	return &Scheduler{
		cron:    c,
		sender:  sender,
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop espera a que terminen los jobs en curso o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// ScheduleReminder reemplaza cualquier entrada previa del grupo.
func (s *Scheduler) ScheduleReminder(ctx context.Context, groupID, name, at string) error {
	hour, minute, err := parseHHMM(at)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[groupID]; ok {
		s.cron.Remove(id)
		delete(s.entries, groupID)
	}

	rem := notify.Reminder{GroupID: groupID, Name: name, At: at}
	id, err := s.cron.AddFunc(dailySpec(hour, minute), func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.sender.Send(ctx, rem); err != nil {
			s.log.Warn("reminder send failed", map[string]any{"group_id": rem.GroupID, "err": err})
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling reminder for group %s: %w", groupID, err)
	}
	s.entries[groupID] = id

	s.log.Debug("reminder scheduled", map[string]any{"group_id": groupID, "at": at})
	return nil
}

func (s *Scheduler) CancelReminder(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[groupID]; ok {
		s.cron.Remove(id)
		delete(s.entries, groupID)
		s.log.Debug("reminder cancelled", map[string]any{"group_id": groupID})
	}
	return nil
}

// Daily registra un job de mantenimiento (p.ej. re-armado a medianoche).
func (s *Scheduler) Daily(hour, minute int, job func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(dailySpec(hour, minute), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		job(ctx)
	})
	return err
}

// Next devuelve el próximo disparo programado para el grupo.
func (s *Scheduler) Next(groupID string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[groupID]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := s.cron.Entry(id)
	if !e.Valid() {
		return time.Time{}, false
	}
	// antes de Start, Next aún no está calculado
	if e.Next.IsZero() {
		return e.Schedule.Next(time.Now().In(s.cron.Location())), true
	}
	return e.Next, true
}

// Scheduled lista los grupos con recordatorio activo.
func (s *Scheduler) Scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}

func dailySpec(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

func parseHHMM(at string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(at))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q: %w", at, err)
	}
	return t.Hour(), t.Minute(), nil
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kvToMap(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := kvToMap(keysAndValues)
	fields["err"] = err
	l.log.Error("cron: "+msg, fields)
}

func kvToMap(kv []any) map[string]any {
	out := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
