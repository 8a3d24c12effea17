package customer

import (
	"context"

	"sisera-crm/internal/domain"
)

// Table is the remote table holding customers.
const Table = "customers"

// Repository persists and fetches customers.
type Repository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Create(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error)
	Update(ctx context.Context, id string, fields domain.CustomerFields) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}
