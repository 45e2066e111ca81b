package entity

import (
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale represents a committed sale. Sales are created exactly once,
// together with their items and the matching stock decrements, and are
// immutable afterwards. Total = Subtotal + Tax always holds.
type Sale struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Folio        int               `gorm:"not null;uniqueIndex:idx_sales_doc_folio" json:"folio"`
	DocumentType enum.DocumentType `gorm:"not null;uniqueIndex:idx_sales_doc_folio" json:"document_type"`
	IssuedAt     time.Time         `gorm:"not null" json:"issued_at"`
	Subtotal     decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax          decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total        decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID   *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	DayRecordID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"day_record_id"`
	CreatedAt    time.Time         `json:"created_at"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Customer  *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	DayRecord DayRecord  `gorm:"foreignKey:DayRecordID;constraint:OnDelete:RESTRICT" json:"-"`
	Items     []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
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

// SaleItem represents one line of a sale. UnitPrice is captured at sale
// time; later product price changes never alter historical lines.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
