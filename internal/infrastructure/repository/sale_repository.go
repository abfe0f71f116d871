package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	domainRepo "github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/pkg/apperror"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	// Lines are inserted separately in a batch; the customer already
	// exists by the time the sale is saved.
	return r.db.WithContext(ctx).Omit("Lines", "Customer").Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines.Product").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})

	if params.FiscalStatus != nil {
		query = query.Where("fiscal_status = ?", *params.FiscalStatus)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("issued_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("issued_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "issued_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) ListByFiscalStatus(ctx context.Context, statuses []enum.FiscalStatus) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Where("fiscal_status IN ?", statuses).
		Preload("Customer").
		Order("issued_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) ListForKitchen(ctx context.Context) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Where("kitchen_status IN ?", []enum.KitchenStatus{
			enum.KitchenStatusNew,
			enum.KitchenStatusInPreparation,
		}).
		Preload("Lines.Product").
		Order("issued_at ASC").
		Find(&sales).Error
	return sales, err
}

// UpdateFiscalOutcome persists the result of an authorization attempt
// using a compare-and-swap on the version column. A lost race means a
// concurrent attempt already recorded its outcome for this sale.
func (r *saleRepository) UpdateFiscalOutcome(ctx context.Context, sale *entity.Sale) error {
	result := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ? AND version = ?", sale.ID, sale.Version).
		Updates(map[string]interface{}{
			"fiscal_status":        sale.FiscalStatus,
			"access_key":           sale.AccessKey,
			"authorization_number": sale.AuthorizationNumber,
			"fiscal_error":         sale.FiscalError,
			"artifact":             sale.Artifact,
			"version":              sale.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrVersionConflict
	}
	sale.Version++
	return nil
}

func (r *saleRepository) UpdateKitchenStatus(ctx context.Context, id uuid.UUID, status enum.KitchenStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("kitchen_status", status).Error
}

type saleLineRepository struct {
	db *gorm.DB
}

// NewSaleLineRepository creates a new sale line repository
func NewSaleLineRepository(db *gorm.DB) domainRepo.SaleLineRepository {
	return &saleLineRepository{db: db}
}

func (r *saleLineRepository) CreateBatch(ctx context.Context, lines []entity.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product", "Sale").Create(&lines).Error
}

func (r *saleLineRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error) {
	var lines []entity.SaleLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Find(&lines).Error
	return lines, err
}
