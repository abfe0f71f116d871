package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"github.com/tecnano/factura-api/internal/domain/repository"
	"github.com/tecnano/factura-api/pkg/apperror"
	"github.com/tecnano/factura-api/pkg/pagination"
)

// --- fakes ---

type fakeSaleRepo struct {
	created []*entity.Sale
	updated []*entity.Sale
	sales   map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.created = append(r.created, sale)
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.sales[id], nil
}

func (r *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListByFiscalStatus(ctx context.Context, statuses []enum.FiscalStatus) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		for _, st := range statuses {
			if s.FiscalStatus == st {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListForKitchen(ctx context.Context) ([]entity.Sale, error) {
	return nil, nil
}

func (r *fakeSaleRepo) UpdateFiscalOutcome(ctx context.Context, sale *entity.Sale) error {
	r.updated = append(r.updated, sale)
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) UpdateKitchenStatus(ctx context.Context, id uuid.UUID, status enum.KitchenStatus) error {
	if s, ok := r.sales[id]; ok {
		s.KitchenStatus = status
	}
	return nil
}

type fakeSaleLineRepo struct {
	batches [][]entity.SaleLine
}

func (r *fakeSaleLineRepo) CreateBatch(ctx context.Context, lines []entity.SaleLine) error {
	r.batches = append(r.batches, lines)
	return nil
}

func (r *fakeSaleLineRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]entity.Product
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error { return nil }

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

type fakeCustomerRepo struct {
	byIdentification map[string]*entity.Customer
	created          []*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byIdentification: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.created = append(r.created, customer)
	r.byIdentification[customer.IdentificationNumber] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) GetByIdentification(ctx context.Context, number string) (*entity.Customer, error) {
	return r.byIdentification[number], nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, search string, params *pagination.PaginationParams) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error { return nil }

type fakeAuthorizer struct {
	calls int
	apply func(sale *entity.Sale)
	err   error
}

func (f *fakeAuthorizer) Submit(ctx context.Context, sale *entity.Sale) error {
	f.calls++
	if f.apply != nil {
		f.apply(sale)
	}
	return f.err
}

type fakeKitchen struct {
	calls int
	err   error
}

func (f *fakeKitchen) PrintKitchenTicket(sale *entity.Sale) error {
	f.calls++
	return f.err
}

// --- tests ---

func testProducts() (entity.Product, entity.Product) {
	taxed := entity.Product{
		ID:            uuid.New(),
		Code:          "PLA-001",
		Name:          "Seco de pollo",
		Price:         dec("5.00"),
		TaxApplicable: true,
	}
	exempt := entity.Product{
		ID:            uuid.New(),
		Code:          "ALM-001",
		Name:          "Almuerzo del día",
		Price:         dec("3.50"),
		TaxApplicable: false,
	}
	return taxed, exempt
}

func newTestSaleService(saleRepo *fakeSaleRepo, products *fakeProductRepo, authorizer *fakeAuthorizer, kitchen kitchenNotifier) (*SaleService, *fakeSaleLineRepo, *fakeCustomerRepo) {
	lineRepo := &fakeSaleLineRepo{}
	customerRepo := newFakeCustomerRepo()
	svc := NewSaleService(saleRepo, lineRepo, products, customerRepo, newCalculator(), authorizer, kitchen)
	return svc, lineRepo, customerRepo
}

func TestSaleService_CreateSale(t *testing.T) {
	t.Run("persists sale with snapshot prices and totals", func(t *testing.T) {
		taxed, exempt := testProducts()
		saleRepo := newFakeSaleRepo()
		authorizer := &fakeAuthorizer{}
		svc, lineRepo, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed, exempt), authorizer, nil)

		sale, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Location:      "Mesa 4",
			Items: []SaleItemInput{
				{ProductID: taxed.ID, Quantity: 2},
				{ProductID: exempt.ID, Quantity: 1},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := sale.Subtotal.StringFixed(2); got != "13.50" {
			t.Errorf("subtotal = %s, want 13.50", got)
		}
		if got := sale.TaxAmount.StringFixed(2); got != "1.20" {
			t.Errorf("tax amount = %s, want 1.20", got)
		}
		if got := sale.Total.StringFixed(2); got != "14.70" {
			t.Errorf("total = %s, want 14.70", got)
		}
		if len(lineRepo.batches) != 1 || len(lineRepo.batches[0]) != 2 {
			t.Fatalf("expected one batch of 2 lines, got %v", lineRepo.batches)
		}
		if authorizer.calls != 1 {
			t.Errorf("fiscal Submit called %d times, want 1", authorizer.calls)
		}
	})

	t.Run("missing product aborts without persisting anything", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		authorizer := &fakeAuthorizer{}
		svc, lineRepo, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed), authorizer, nil)

		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Items: []SaleItemInput{
				{ProductID: taxed.ID, Quantity: 1},
				{ProductID: uuid.New(), Quantity: 1},
			},
		})
		if err == nil {
			t.Fatal("expected error for missing product")
		}
		appErr := apperror.GetAppError(err)
		if appErr.Code != 404 {
			t.Errorf("error code = %d, want 404", appErr.Code)
		}
		if len(saleRepo.created) != 0 {
			t.Errorf("expected no sale persisted, got %d", len(saleRepo.created))
		}
		if len(lineRepo.batches) != 0 {
			t.Errorf("expected no lines persisted, got %d", len(lineRepo.batches))
		}
		if authorizer.calls != 0 {
			t.Errorf("fiscal Submit called %d times, want 0", authorizer.calls)
		}
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		saleRepo := newFakeSaleRepo()
		svc, _, _ := newTestSaleService(saleRepo, newFakeProductRepo(), &fakeAuthorizer{}, nil)

		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
		})
		if !errors.Is(err, apperror.ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("price override replaces the catalog price", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		svc, lineRepo, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed), &fakeAuthorizer{}, nil)

		override := dec("4.25")
		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCard,
			Items: []SaleItemInput{
				{ProductID: taxed.ID, Quantity: 2, UnitPrice: &override},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		line := lineRepo.batches[0][0]
		if !line.UnitPrice.Equal(override) {
			t.Errorf("unit price = %s, want %s", line.UnitPrice, override)
		}
		if got := line.Subtotal.StringFixed(2); got != "8.50" {
			t.Errorf("line subtotal = %s, want 8.50", got)
		}
	})

	t.Run("new sale starts pending with new kitchen status", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		svc, _, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed), &fakeAuthorizer{}, nil)

		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Items:         []SaleItemInput{{ProductID: taxed.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		created := saleRepo.created[0]
		if created.FiscalStatus != enum.FiscalStatusPending {
			t.Errorf("fiscal status = %s, want PENDING", created.FiscalStatus)
		}
		if created.KitchenStatus != enum.KitchenStatusNew {
			t.Errorf("kitchen status = %s, want NEW", created.KitchenStatus)
		}
	})

	t.Run("fiscal persistence failure does not fail the checkout", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		authorizer := &fakeAuthorizer{err: apperror.ErrVersionConflict}
		svc, _, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed), authorizer, nil)

		sale, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Items:         []SaleItemInput{{ProductID: taxed.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sale == nil {
			t.Fatal("expected the sale to be returned")
		}
	})

	t.Run("kitchen ticket failure does not fail the checkout", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		kitchen := &fakeKitchen{err: errors.New("printer offline")}
		svc, _, _ := newTestSaleService(saleRepo, newFakeProductRepo(taxed), &fakeAuthorizer{}, kitchen)

		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Items:         []SaleItemInput{{ProductID: taxed.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if kitchen.calls != 1 {
			t.Errorf("kitchen ticket printed %d times, want 1", kitchen.calls)
		}
	})

	t.Run("reuses an existing customer by identification", func(t *testing.T) {
		taxed, _ := testProducts()
		saleRepo := newFakeSaleRepo()
		svc, _, customerRepo := newTestSaleService(saleRepo, newFakeProductRepo(taxed), &fakeAuthorizer{}, nil)

		existing := &entity.Customer{
			ID:                   uuid.New(),
			Name:                 "Maria Perez",
			IdentificationNumber: "1712345678",
			IdentificationType:   enum.IdentificationTypeNationalID,
		}
		customerRepo.byIdentification[existing.IdentificationNumber] = existing

		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			PaymentMethod: enum.PaymentMethodCash,
			Customer: &CustomerInput{
				Name:                 "Maria P.",
				IdentificationNumber: "1712345678",
				IdentificationType:   enum.IdentificationTypeNationalID,
			},
			Items: []SaleItemInput{{ProductID: taxed.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(customerRepo.created) != 0 {
			t.Errorf("expected no new customer, got %d", len(customerRepo.created))
		}
		created := saleRepo.created[0]
		if created.CustomerID == nil || *created.CustomerID != existing.ID {
			t.Errorf("sale customer id = %v, want %s", created.CustomerID, existing.ID)
		}
	})
}

func TestSaleService_UpdateKitchenStatus(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	svc, _, _ := newTestSaleService(saleRepo, newFakeProductRepo(), &fakeAuthorizer{}, nil)

	sale := &entity.Sale{ID: uuid.New()}
	saleRepo.sales[sale.ID] = sale

	if err := svc.UpdateKitchenStatus(context.Background(), sale.ID, enum.KitchenStatusReady); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sale.KitchenStatus != enum.KitchenStatusReady {
		t.Errorf("kitchen status = %s, want READY", sale.KitchenStatus)
	}

	err := svc.UpdateKitchenStatus(context.Background(), uuid.New(), enum.KitchenStatusReady)
	if apperror.GetAppError(err).Code != 404 {
		t.Errorf("expected 404 for unknown sale, got %v", err)
	}
}
