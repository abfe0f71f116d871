package service

import (
	"fmt"

	"github.com/tecnano/factura-api/internal/domain/entity"
	"github.com/tecnano/factura-api/pkg/printer"
)

const ticketWidth = 32

// TicketService prints kitchen tickets for new sales. Printing is
// best-effort infrastructure: callers log failures and move on.
type TicketService struct {
	printer printer.Printer
}

// NewTicketService creates a new ticket service
func NewTicketService(p printer.Printer) *TicketService {
	return &TicketService{printer: p}
}

// PrintKitchenTicket sends the preparation ticket for a sale. Only
// lines that carry a product are printed; the kitchen does not care
// about prices or taxes.
func (s *TicketService) PrintKitchenTicket(sale *entity.Sale) error {
	if sale == nil {
		return fmt.Errorf("ticket: sale is nil")
	}
	if len(sale.Lines) == 0 {
		return nil
	}

	doc := printer.NewDocument(ticketWidth)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text("COCINA").
		SetFontSize(printer.FontNormal).
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('=').
		TextF("Venta: %s", shortReference(sale)).
		TextF("Hora:  %s", sale.IssuedAt.Format("15:04"))
	if sale.Location != "" {
		doc.TextF("Mesa:  %s", sale.Location)
	}
	doc.Separator('=')

	for _, line := range sale.Lines {
		doc.SetBold(true).
			TextF("%dx %s", line.Quantity, line.Product.Name).
			SetBold(false)
		if line.KitchenNote != nil && *line.KitchenNote != "" {
			doc.TextF("   * %s", *line.KitchenNote)
		}
	}

	doc.FeedLines(3).Cut()

	return s.printer.Print(doc.Bytes())
}

// shortReference trims the sale id to the leading block so the ticket
// header stays readable on 58mm paper.
func shortReference(sale *entity.Sale) string {
	ref := sale.Reference()
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
