package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/pkg/apperror"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// ProductService handles catalog operations. The sale pipeline only
// reads from it; edits here never touch historical sales.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProduct adds a catalog record
func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) error {
	existing, err := s.productRepo.GetByCode(ctx, product.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewConflictError("A product with this code already exists")
	}
	return s.productRepo.Create(ctx, product)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByCode retrieves a product by its catalog code
func (s *ProductService) GetProductByCode(ctx context.Context, code string) (*entity.Product, error) {
	product, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists catalog records
func (s *ProductService) ListProducts(ctx context.Context, search string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, search, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates a catalog record
func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) error {
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Update(ctx, product)
}

// DeleteProduct removes a catalog record
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}
