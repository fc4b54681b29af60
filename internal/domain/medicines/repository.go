package medicines

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	List(ctx context.Context) ([]Medicine, error)
	Delete(ctx context.Context, id string) error

	// InUse: true si algún schedule o registro no programado referencia el medicamento.
	InUse(ctx context.Context, id string) (bool, error)
}
