package schedules

import (
	"context"

	"therapy-track/internal/domain/calendar"
)

type Repository interface {
	// Create inserta el schedule y sus dosis en una sola transacción.
	Create(ctx context.Context, s Schedule) error
	UpdateDates(ctx context.Context, id string, start calendar.Day, end *calendar.Day) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	List(ctx context.Context) ([]Schedule, error)

	// Delete borra registros programados, dosis y el schedule de forma atómica.
	Delete(ctx context.Context, id string) error
}
