package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer persistence.
// GetByIdentification supports reusing a previously captured buyer when
// the same identification number checks out again.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByIdentification(ctx context.Context, number string) (*entity.Customer, error)
	List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
