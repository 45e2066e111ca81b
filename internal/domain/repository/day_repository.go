package repository

import (
	"context"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/google/uuid"
)

// DayRepository defines the interface for day record data access.
// GetByDate returns (nil, nil) when no record exists for the date.
type DayRepository interface {
	Create(ctx context.Context, record *entity.DayRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DayRecord, error)
	GetByDate(ctx context.Context, date time.Time) (*entity.DayRecord, error)
	Update(ctx context.Context, record *entity.DayRecord) error
}
