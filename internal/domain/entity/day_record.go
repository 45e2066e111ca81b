package entity

import (
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayRecord tracks whether a calendar date accepts new sales. One record
// per date; records are created on demand and never deleted. A date with
// no record counts as closed.
type DayRecord struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Date      time.Time     `gorm:"type:date;uniqueIndex;not null" json:"date"`
	State     enum.DayState `gorm:"not null;default:0" json:"state"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Sales []Sale `gorm:"foreignKey:DayRecordID;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate generates a UUID before creating a new day record
func (d *DayRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DayRecord model
func (DayRecord) TableName() string {
	return "day_records"
}

// IsOpen reports whether the day accepts new sales
func (d *DayRecord) IsOpen() bool {
	return d.State == enum.DayStateOpen
}

// DateOf truncates a timestamp to its calendar date, which is the key
// day records are looked up by.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
