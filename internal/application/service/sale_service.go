package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/pkg/apperror"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// fiscalAuthorizer drives the authorization state machine for a freshly
// persisted sale. Implemented by FiscalService.
type fiscalAuthorizer interface {
	Submit(ctx context.Context, sale *entity.Sale) error
}

// kitchenNotifier prints the kitchen ticket for a new sale. Ticket
// failures never fail the checkout.
type kitchenNotifier interface {
	PrintKitchenTicket(sale *entity.Sale) error
}

// SaleService assembles and persists sale aggregates and answers sale
// queries. Totals always come from the TaxCalculator; the service never
// does money arithmetic itself.
type SaleService struct {
	saleRepo     repository.SaleRepository
	saleLineRepo repository.SaleLineRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	calculator   *TaxCalculator
	fiscal       fiscalAuthorizer
	kitchen      kitchenNotifier
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	saleLineRepo repository.SaleLineRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	calculator *TaxCalculator,
	fiscal fiscalAuthorizer,
	kitchen kitchenNotifier,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		saleLineRepo: saleLineRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		calculator:   calculator,
		fiscal:       fiscal,
		kitchen:      kitchen,
	}
}

// SaleItemInput represents one cart item at checkout
type SaleItemInput struct {
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   *decimal.Decimal // optional price override; product price otherwise
	KitchenNote *string
}

// CustomerInput captures the buyer when a fiscal document with
// identification was requested.
type CustomerInput struct {
	Name                 string
	IdentificationNumber string
	IdentificationType   enum.IdentificationType
	Email                *string
}

// CreateSaleInput represents the checkout input
type CreateSaleInput struct {
	PaymentMethod enum.PaymentMethod
	Location      string
	Customer      *CustomerInput
	Items         []SaleItemInput
}

// CreateSale runs the finalization pipeline: build the aggregate,
// persist it PENDING, submit it for fiscal authorization and persist the
// outcome. The sale always completes from the cashier's perspective;
// fiscal failures end up on the sale, not in the returned error.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	customer, err := s.resolveCustomer(ctx, input.Customer)
	if err != nil {
		return nil, err
	}

	sale, lines, err := s.buildSale(ctx, input, customer)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].SaleID = sale.ID
	}
	if err := s.saleLineRepo.CreateBatch(ctx, lines); err != nil {
		return nil, err
	}
	sale.Lines = lines

	if err := s.fiscal.Submit(ctx, sale); err != nil {
		// The attempt outcome is already on the sale; only the
		// persistence of that outcome failed. Surface it in the log and
		// let the worklist pick the sale up.
		log.Printf("[sale] persisting fiscal outcome for sale %s: %v", sale.ID, err)
	}

	if s.kitchen != nil {
		if err := s.kitchen.PrintKitchenTicket(sale); err != nil {
			log.Printf("[sale] kitchen ticket for sale %s: %v", sale.ID, err)
		}
	}

	return s.saleRepo.GetWithLines(ctx, sale.ID)
}

// buildSale is the pure assembly step: it resolves products, snapshots
// prices and tax flags, and computes totals. It performs no writes.
func (s *SaleService) buildSale(ctx context.Context, input *CreateSaleInput, customer *entity.Customer) (*entity.Sale, []entity.SaleLine, error) {
	if len(input.Items) == 0 {
		return nil, nil, apperror.ErrEmptyCart
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lines := make([]entity.SaleLine, 0, len(input.Items))
	taxLines := make([]TaxLine, 0, len(input.Items))

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			// Abort the whole build: no partial sale is ever saved.
			return nil, nil, apperror.NewProductNotFoundError(item.ProductID.String())
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}

		lines = append(lines, entity.SaleLine{
			ProductID:     product.ID,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			Subtotal:      s.calculator.LineSubtotal(unitPrice, quantity),
			TaxApplicable: product.TaxApplicable,
			KitchenNote:   item.KitchenNote,
			Product:       *product,
		})
		taxLines = append(taxLines, TaxLine{
			UnitPrice:     unitPrice,
			Quantity:      quantity,
			TaxApplicable: product.TaxApplicable,
		})
	}

	totals, err := s.calculator.Calculate(taxLines)
	if err != nil {
		return nil, nil, err
	}

	sale := &entity.Sale{
		IssuedAt:      time.Now(),
		PaymentMethod: input.PaymentMethod,
		Location:      input.Location,
		KitchenStatus: enum.KitchenStatusNew,
		FiscalStatus:  enum.FiscalStatusPending,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
		sale.Customer = customer
	}

	return sale, lines, nil
}

// resolveCustomer reuses a previously captured buyer with the same
// identification number, or stores a new one.
func (s *SaleService) resolveCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	if input == nil {
		return nil, nil
	}

	existing, err := s.customerRepo.GetByIdentification(ctx, input.IdentificationNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	customer := &entity.Customer{
		Name:                 input.Name,
		IdentificationNumber: input.IdentificationNumber,
		IdentificationType:   input.IdentificationType,
		Email:                input.Email,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetSale retrieves a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetArtifact returns the rendered artifact bytes of a sale.
func (s *SaleService) GetArtifact(ctx context.Context, id uuid.UUID) ([]byte, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale.Artifact, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListForKitchen returns sales still moving through preparation.
func (s *SaleService) ListForKitchen(ctx context.Context) ([]entity.Sale, error) {
	return s.saleRepo.ListForKitchen(ctx)
}

// UpdateKitchenStatus advances the preparation lifecycle of a sale.
func (s *SaleService) UpdateKitchenStatus(ctx context.Context, id uuid.UUID, status enum.KitchenStatus) error {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	return s.saleRepo.UpdateKitchenStatus(ctx, id, status)
}
