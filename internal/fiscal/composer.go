package fiscal

import (
	"encoding/xml"
	"fmt"

	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
)

// issueDateLayout is fixed; the authority expects local time without zone.
const issueDateLayout = "2006-01-02T15:04:05"

// Composer serializes sales into canonical fiscal documents. Composition
// is deterministic: the same sale state always yields the same bytes, so
// a retried submission presents an identical document.
type Composer struct {
	issuer config.BusinessConfig
}

// NewComposer creates a composer stamping the given issuer identity.
func NewComposer(issuer config.BusinessConfig) *Composer {
	return &Composer{issuer: issuer}
}

// Compose builds the canonical document for a sale. Free-text fields are
// escaped by the XML encoder, so customer names and kitchen notes cannot
// break the document structure.
func (c *Composer) Compose(sale *entity.Sale) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("compose: nil sale")
	}

	doc := Document{
		Issuer: IssuerBlock{
			Name:    c.issuer.Name,
			TaxID:   c.issuer.TaxID,
			Regime:  c.issuer.Regime,
			Address: c.issuer.Address,
			Phone:   c.issuer.Phone,
		},
		Voucher: VoucherBlock{
			Reference:     sale.Reference(),
			IssueDate:     sale.IssuedAt.Format(issueDateLayout),
			Location:      sale.Location,
			CustomerType:  customerType(sale),
			PaymentMethod: sale.PaymentMethod.String(),
		},
		Totals: TotalsBlock{
			Subtotal:  sale.Subtotal.StringFixed(2),
			TaxAmount: sale.TaxAmount.StringFixed(2),
			Total:     sale.Total.StringFixed(2),
		},
	}

	if sale.Customer != nil {
		doc.Customer = &CustomerBlock{
			Name:                 sale.Customer.Name,
			IdentificationNumber: sale.Customer.IdentificationNumber,
			IdentificationType:   sale.Customer.IdentificationType.WireCode(),
		}
		if sale.Customer.Email != nil {
			doc.Customer.Email = *sale.Customer.Email
		}
	}

	doc.Lines = make([]LineBlock, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		block := LineBlock{
			Code:        line.Product.Code,
			Description: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
			Taxed:       line.TaxApplicable,
		}
		if line.KitchenNote != nil {
			block.Note = *line.KitchenNote
		}
		doc.Lines = append(doc.Lines, block)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("compose: marshal document: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

func customerType(sale *entity.Sale) string {
	if sale.Customer == nil {
		return "FINAL_CONSUMER"
	}
	return sale.Customer.IdentificationType.String()
}
