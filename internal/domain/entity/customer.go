package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents an invoiced customer. RUT is stored in its canonical
// dotted form ("12.345.678-5") after checksum validation.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RUT       string         `gorm:"size:15;unique;not null;column:rut" json:"rut"`
	LegalName string         `gorm:"size:100;not null" json:"legal_name"`
	Activity  string         `gorm:"size:100;not null" json:"activity"`
	Address   string         `gorm:"size:150;not null" json:"address"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
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
