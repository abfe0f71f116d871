package fiscal

import "encoding/xml"

// Document is the canonical fiscal representation of a sale, the exact
// bytes presented to the authority. All numeric fields are pre-formatted
// at fixed two-decimal precision so serialization is locale-independent.
type Document struct {
	XMLName  xml.Name       `xml:"invoice"`
	Issuer   IssuerBlock    `xml:"issuer"`
	Voucher  VoucherBlock   `xml:"voucher"`
	Customer *CustomerBlock `xml:"customer,omitempty"`
	Lines    []LineBlock    `xml:"lines>line"`
	Totals   TotalsBlock    `xml:"totals"`
}

// IssuerBlock identifies the business issuing the document.
type IssuerBlock struct {
	Name    string `xml:"name"`
	TaxID   string `xml:"taxId"`
	Regime  string `xml:"regime"`
	Address string `xml:"address"`
	Phone   string `xml:"phone"`
}

// VoucherBlock carries the transaction header.
type VoucherBlock struct {
	Reference     string `xml:"reference"`
	IssueDate     string `xml:"issueDate"`
	Location      string `xml:"location"`
	CustomerType  string `xml:"customerType"`
	PaymentMethod string `xml:"paymentMethod"`
}

// CustomerBlock is present only for identified buyers.
type CustomerBlock struct {
	Name                 string `xml:"name"`
	IdentificationNumber string `xml:"identificationNumber"`
	IdentificationType   string `xml:"identificationType"`
	Email                string `xml:"email,omitempty"`
}

// LineBlock is one sale line.
type LineBlock struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
	Quantity    int    `xml:"quantity"`
	UnitPrice   string `xml:"unitPrice"`
	Subtotal    string `xml:"subtotal"`
	Taxed       bool   `xml:"taxed"`
	Note        string `xml:"note,omitempty"`
}

// TotalsBlock carries the sale totals.
type TotalsBlock struct {
	Subtotal  string `xml:"subtotal"`
	TaxAmount string `xml:"taxAmount"`
	Total     string `xml:"total"`
}
