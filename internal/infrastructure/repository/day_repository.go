package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	domainRepo "github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dayRepository struct {
	db *gorm.DB
}

// NewDayRepository creates a new day record repository
func NewDayRepository(db *gorm.DB) domainRepo.DayRepository {
	return &dayRepository{db: db}
}

func (r *dayRepository) Create(ctx context.Context, record *entity.DayRecord) error {
	return conn(ctx, r.db).Create(record).Error
}

func (r *dayRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DayRecord, error) {
	var record entity.DayRecord
	err := conn(ctx, r.db).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *dayRepository) GetByDate(ctx context.Context, date time.Time) (*entity.DayRecord, error) {
	var record entity.DayRecord
	err := conn(ctx, r.db).First(&record, "date = ?", entity.DateOf(date)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *dayRepository) Update(ctx context.Context, record *entity.DayRecord) error {
	return conn(ctx, r.db).Save(record).Error
}
