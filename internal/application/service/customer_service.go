package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/pkg/apperror"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// CustomerService handles buyer records captured for fiscal documents.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomer stores a buyer record
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *entity.Customer) error {
	existing, err := s.customerRepo.GetByIdentification(ctx, customer.IdentificationNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewConflictError("A customer with this identification number already exists")
	}
	return s.customerRepo.Create(ctx, customer)
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// GetCustomerByIdentification retrieves a customer by identification number
func (s *CustomerService) GetCustomerByIdentification(ctx context.Context, number string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByIdentification(ctx, number)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists buyer records
func (s *CustomerService) ListCustomers(ctx context.Context, search string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, search, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomer updates a buyer record
func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *entity.Customer) error {
	existing, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Update(ctx, customer)
}
