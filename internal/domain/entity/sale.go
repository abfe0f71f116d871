package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale is one purchase transaction. It exclusively owns its lines: the
// line collection is fixed at creation and never mutated afterwards.
// Fiscal fields are written only by the fiscal service.
type Sale struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	IssuedAt      time.Time          `gorm:"not null;index" json:"issued_at"`
	PaymentMethod enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	Location      string             `gorm:"size:100" json:"location"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	KitchenStatus enum.KitchenStatus `gorm:"default:0;index" json:"kitchen_status"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	FiscalStatus        enum.FiscalStatus `gorm:"default:0;index" json:"fiscal_status"`
	AccessKey           *string           `gorm:"size:100" json:"access_key,omitempty"`
	AuthorizationNumber *string           `gorm:"size:100" json:"authorization_number,omitempty"`
	FiscalError         *string           `gorm:"size:2000" json:"fiscal_error,omitempty"`
	Artifact            []byte            `gorm:"type:bytea" json:"-"`

	// Version guards fiscal outcome writes: two concurrent retries cannot
	// both commit against the same version.
	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Reference is the identifier presented to the fiscal authority.
func (s *Sale) Reference() string {
	return s.ID.String()
}

// SaleLine is a purchased quantity of one product at a point-in-time price.
// UnitPrice and TaxApplicable are snapshots: later catalog edits never
// alter historical sales.
type SaleLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxApplicable bool            `gorm:"not null;default:false" json:"tax_applicable"`
	KitchenNote   *string         `gorm:"size:1000" json:"kitchen_note,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}
