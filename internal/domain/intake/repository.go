package intake

import "context"

type Repository interface {
	// ToggleScheduled borra el registro de la Key si existe; si no, inserta rec.
	// Chequeo e inserción/borrado van en una sola unidad atómica.
	ToggleScheduled(ctx context.Context, rec ScheduledRecord) (ToggleResult, error)
	ListScheduled(ctx context.Context, r Range) ([]ScheduledRecord, error)

	CreateUnscheduled(ctx context.Context, rec UnscheduledRecord) error
	DeleteUnscheduled(ctx context.Context, id string) error
	ListUnscheduled(ctx context.Context, r Range) ([]UnscheduledRecord, error)
}
