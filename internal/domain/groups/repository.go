package groups

import "context"

type Repository interface {
	Create(ctx context.Context, g Group) error
	Update(ctx context.Context, g Group) error
	GetByID(ctx context.Context, id string) (Group, error)
	List(ctx context.Context) ([]Group, error)
	Delete(ctx context.Context, id string) error

	// InUse: true si alguna dosis o registro no programado referencia el grupo.
	InUse(ctx context.Context, id string) (bool, error)
}
