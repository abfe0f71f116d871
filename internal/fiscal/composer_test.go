package fiscal

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/internal/domain/enum"
)

func testIssuer() config.BusinessConfig {
	return config.BusinessConfig{
		Name:    "MI RESTAURANTE",
		TaxID:   "1790012345001",
		Regime:  "General",
		Address: "Quito - Ecuador",
		Phone:   "0980000000",
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleSale() *entity.Sale {
	note := "sin cebolla"
	return &entity.Sale{
		ID:            uuid.MustParse("6d2a3610-15a4-4df0-9a31-5f6a4c0deadb"),
		IssuedAt:      time.Date(2026, 3, 15, 13, 45, 30, 0, time.UTC),
		PaymentMethod: enum.PaymentMethodCash,
		Location:      "Mesa 7",
		Subtotal:      dec("8.50"),
		TaxAmount:     dec("0.60"),
		Total:         dec("9.10"),
		Lines: []entity.SaleLine{
			{
				Quantity:      1,
				UnitPrice:     dec("5.00"),
				Subtotal:      dec("5.00"),
				TaxApplicable: true,
				KitchenNote:   &note,
				Product:       entity.Product{Code: "PLA-001", Name: "Seco de pollo"},
			},
			{
				Quantity:  1,
				UnitPrice: dec("3.50"),
				Subtotal:  dec("3.50"),
				Product:   entity.Product{Code: "ALM-001", Name: "Almuerzo del día"},
			},
		},
	}
}

func TestComposer_Compose(t *testing.T) {
	t.Run("same sale composes to identical bytes", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		sale := sampleSale()

		first, err := composer.Compose(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := composer.Compose(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("composition is not deterministic")
		}
	})

	t.Run("document round-trips and carries fixed decimals", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		raw, err := composer.Compose(sampleSale())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc Document
		if err := xml.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("composed document is not valid XML: %v", err)
		}

		if doc.Issuer.TaxID != "1790012345001" {
			t.Errorf("issuer tax id = %s", doc.Issuer.TaxID)
		}
		if doc.Voucher.IssueDate != "2026-03-15T13:45:30" {
			t.Errorf("issue date = %s", doc.Voucher.IssueDate)
		}
		if doc.Totals.Total != "9.10" {
			t.Errorf("total = %s, want 9.10", doc.Totals.Total)
		}
		if len(doc.Lines) != 2 {
			t.Fatalf("lines = %d, want 2", len(doc.Lines))
		}
		if doc.Lines[0].UnitPrice != "5.00" {
			t.Errorf("line unit price = %s, want 5.00", doc.Lines[0].UnitPrice)
		}
		if doc.Lines[0].Note != "sin cebolla" {
			t.Errorf("line note = %q", doc.Lines[0].Note)
		}
	})

	t.Run("anonymous sale omits the customer block", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		raw, err := composer.Compose(sampleSale())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(string(raw), "<customer>") {
			t.Error("anonymous sale must not include a customer block")
		}
		var doc Document
		if err := xml.Unmarshal(raw, &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Voucher.CustomerType != "FINAL_CONSUMER" {
			t.Errorf("customer type = %s, want FINAL_CONSUMER", doc.Voucher.CustomerType)
		}
	})

	t.Run("identified buyer appears with wire code", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		sale := sampleSale()
		sale.Customer = &entity.Customer{
			Name:                 "Maria Perez",
			IdentificationNumber: "1712345678",
			IdentificationType:   enum.IdentificationTypeNationalID,
		}

		raw, err := composer.Compose(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc Document
		if err := xml.Unmarshal(raw, &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Customer == nil {
			t.Fatal("customer block missing")
		}
		if doc.Customer.IdentificationType != "05" {
			t.Errorf("identification type = %s, want 05", doc.Customer.IdentificationType)
		}
	})

	t.Run("markup in free text is escaped", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		sale := sampleSale()
		sale.Customer = &entity.Customer{
			Name:                 `Tramposo <script>&"'`,
			IdentificationNumber: "0912345678",
			IdentificationType:   enum.IdentificationTypeNationalID,
		}

		raw, err := composer.Compose(sale)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(raw), "<script>") {
			t.Error("free text leaked unescaped markup into the document")
		}

		var doc Document
		if err := xml.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("document with escaped text is not valid XML: %v", err)
		}
		if doc.Customer.Name != sale.Customer.Name {
			t.Errorf("customer name round-trip = %q", doc.Customer.Name)
		}
	})

	t.Run("nil sale is rejected", func(t *testing.T) {
		composer := NewComposer(testIssuer())
		if _, err := composer.Compose(nil); err == nil {
			t.Fatal("expected error for nil sale")
		}
	})
}
