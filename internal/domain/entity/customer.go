package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/tecnano/factura-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer is the buyer attached to a sale when a fiscal document with
// identification was requested. Anonymous sales carry no customer and are
// billed as final consumer.
type Customer struct {
	ID                   uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	Name                 string                  `gorm:"size:255;not null" json:"name"`
	IdentificationNumber string                  `gorm:"size:20;index" json:"identification_number"`
	IdentificationType   enum.IdentificationType `gorm:"default:3" json:"identification_type"`
	Email                *string                 `gorm:"size:255" json:"email,omitempty"`
	Phone                *string                 `gorm:"size:50" json:"phone,omitempty"`
	Address              *string                 `gorm:"type:text" json:"address,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
	DeletedAt            gorm.DeletedAt          `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
