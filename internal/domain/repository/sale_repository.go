package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// SaleFilterParams holds filtering options for listing sales
type SaleFilterParams struct {
	Pagination   *pagination.PaginationParams
	FiscalStatus *enum.FiscalStatus
	CustomerID   *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
	SortBy       string
	SortOrder    string
}

// SaleRepository defines the interface for sale persistence.
// UpdateFiscalOutcome performs a compare-and-swap on the sale's version
// column and reports a conflict when the stored version moved.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListByFiscalStatus(ctx context.Context, statuses []enum.FiscalStatus) ([]entity.Sale, error)
	ListForKitchen(ctx context.Context) ([]entity.Sale, error)
	UpdateFiscalOutcome(ctx context.Context, sale *entity.Sale) error
	UpdateKitchenStatus(ctx context.Context, id uuid.UUID, status enum.KitchenStatus) error
}

// SaleLineRepository defines the interface for sale line persistence
type SaleLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.SaleLine) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error)
}
