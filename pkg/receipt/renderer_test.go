package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRenderer() *Renderer {
	return NewRenderer(config.BusinessConfig{
		Name:    "MI RESTAURANTE",
		TaxID:   "1790012345001",
		Address: "Quito - Ecuador",
	})
}

func testSale() *entity.Sale {
	return &entity.Sale{
		ID:            uuid.New(),
		IssuedAt:      time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC),
		PaymentMethod: enum.PaymentMethodCash,
		Location:      "Mesa 1",
		Subtotal:      dec("8.50"),
		TaxAmount:     dec("0.60"),
		Total:         dec("9.10"),
		Lines: []entity.SaleLine{
			{
				Quantity: 2,
				Subtotal: dec("7.00"),
				Product:  entity.Product{Name: "Almuerzo"},
			},
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Run("receipt carries issuer, items and totals", func(t *testing.T) {
		out, err := testRenderer().Render(testSale())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		text := string(out)
		for _, want := range []string{
			"MI RESTAURANTE",
			"RUC: 1790012345001",
			"2x Almuerzo",
			"$7.00",
			"$9.10",
			"CONSUMIDOR FINAL",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("receipt missing %q", want)
			}
		}
	})

	t.Run("identified buyer replaces final consumer", func(t *testing.T) {
		sale := testSale()
		sale.Customer = &entity.Customer{
			Name:                 "Maria Perez",
			IdentificationNumber: "1712345678",
			IdentificationType:   enum.IdentificationTypeNationalID,
		}

		out, err := testRenderer().Render(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		text := string(out)
		if !strings.Contains(text, "Maria Perez") || !strings.Contains(text, "1712345678") {
			t.Error("receipt missing buyer identification")
		}
		if strings.Contains(text, "CONSUMIDOR FINAL") {
			t.Error("identified buyer must not render as final consumer")
		}
	})

	t.Run("authorization details appear once present", func(t *testing.T) {
		sale := testSale()
		accessKey := "KEY-123"
		authNumber := "AUTH-456"
		sale.AccessKey = &accessKey
		sale.AuthorizationNumber = &authNumber

		out, err := testRenderer().Render(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		text := string(out)
		if !strings.Contains(text, "KEY-123") || !strings.Contains(text, "AUTH-456") {
			t.Error("receipt missing fiscal authorization details")
		}
	})

	t.Run("nil sale is rejected", func(t *testing.T) {
		if _, err := testRenderer().Render(nil); err == nil {
			t.Fatal("expected error for nil sale")
		}
	})
}
