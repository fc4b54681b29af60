package notify

import "context"

// Notifier es el colaborador externo de recordatorios por grupo.
// El dominio solo decide cuándo llamar; la entrega vive en los adapters.
type Notifier interface {
	// ScheduleReminder (re)programa el recordatorio diario del grupo a "HH:MM".
	ScheduleReminder(ctx context.Context, groupID, name, at string) error
	CancelReminder(ctx context.Context, groupID string) error
}

// Reminder es lo que recibe un Sender cuando dispara el recordatorio.
type Reminder struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	At      string `json:"at"`
}

type Sender interface {
	Send(ctx context.Context, r Reminder) error
}

// Noop descarta todo (recordatorios deshabilitados, tests).
type Noop struct{}

func (Noop) ScheduleReminder(context.Context, string, string, string) error { return nil }
func (Noop) CancelReminder(context.Context, string) error                   { return nil }
