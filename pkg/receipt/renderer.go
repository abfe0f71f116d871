// Package receipt renders the printable document for a finalized sale.
// The output is an ESC/POS byte stream suitable both for direct thermal
// printing and for archiving alongside the fiscal authorization.
package receipt

import (
	"fmt"

	"github.com/tecnano/factura-api/internal/config"
	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/pkg/printer"
)

const receiptWidth = 32 // 58mm paper

// Renderer builds customer receipts stamped with the issuer identity.
type Renderer struct {
	issuer config.BusinessConfig
}

// NewRenderer creates a receipt renderer
func NewRenderer(issuer config.BusinessConfig) *Renderer {
	return &Renderer{issuer: issuer}
}

// Render produces the receipt for a sale. The sale must carry its lines;
// fiscal fields are included when present, so the same renderer serves
// both the pre-authorization artifact and reprints.
func (r *Renderer) Render(sale *entity.Sale) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("receipt: sale is nil")
	}

	doc := printer.NewDocument(receiptWidth)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(r.issuer.Name).
		SetBold(false).
		TextF("RUC: %s", r.issuer.TaxID).
		Text(r.issuer.Address)
	if r.issuer.Phone != "" {
		doc.Text("Tel: " + r.issuer.Phone)
	}
	if r.issuer.Regime != "" {
		doc.Text("Régimen: " + r.issuer.Regime)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		TextF("Venta: %s", sale.Reference()).
		TextF("Fecha: %s", sale.IssuedAt.Format("2006-01-02 15:04")).
		TextF("Pago:  %s", sale.PaymentMethod.String())
	if sale.Location != "" {
		doc.TextF("Mesa:  %s", sale.Location)
	}

	if sale.Customer != nil {
		doc.Separator('-').
			TextF("Cliente: %s", sale.Customer.Name).
			TextF("%s: %s", sale.Customer.IdentificationType.String(), sale.Customer.IdentificationNumber)
	} else {
		doc.Separator('-').
			Text("Cliente: CONSUMIDOR FINAL")
	}

	doc.Separator('-')
	for _, line := range sale.Lines {
		doc.ItemLine(line.Quantity, line.Product.Name, "$"+line.Subtotal.StringFixed(2))
	}

	doc.Separator('-').
		KeyValue("Subtotal", "$"+sale.Subtotal.StringFixed(2)).
		KeyValue("IVA", "$"+sale.TaxAmount.StringFixed(2)).
		SetBold(true).
		KeyValue("TOTAL", "$"+sale.Total.StringFixed(2)).
		SetBold(false)

	if sale.AccessKey != nil || sale.AuthorizationNumber != nil {
		doc.Separator('-')
		if sale.AccessKey != nil {
			doc.Text("Clave de acceso:").Text(*sale.AccessKey)
		}
		if sale.AuthorizationNumber != nil {
			doc.Text("Autorización:").Text(*sale.AuthorizationNumber)
		}
	}

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Gracias por su compra").
		FeedLines(3).
		Cut()

	return doc.Bytes(), nil
}
