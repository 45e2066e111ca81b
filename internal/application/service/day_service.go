package service

import (
	"context"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/google/uuid"
)

// DayService owns the day gate: sales are only accepted while the
// current date's record is open.
type DayService struct {
	dayRepo repository.DayRepository
	loc     *time.Location
}

// NewDayService creates a new day service. loc is the business timezone
// used to decide what "today" means.
func NewDayService(dayRepo repository.DayRepository, loc *time.Location) *DayService {
	return &DayService{dayRepo: dayRepo, loc: loc}
}

func (s *DayService) today() time.Time {
	return entity.DateOf(time.Now().In(s.loc))
}

// EnsureToday returns today's day record, creating it in the closed
// state when it does not exist yet. The creating user is recorded.
func (s *DayService) EnsureToday(ctx context.Context, userID uuid.UUID) (*entity.DayRecord, error) {
	date := s.today()

	record, err := s.dayRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &entity.DayRecord{
		Date:   date,
		State:  enum.DayStateClosed,
		UserID: userID,
	}
	if err := s.dayRepo.Create(ctx, record); err != nil {
		// Lost a race with a concurrent first request for this date.
		if existing, getErr := s.dayRepo.GetByDate(ctx, date); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return record, nil
}

// Toggle flips today's day record between open and closed, creating it
// first if needed, and returns the new state.
func (s *DayService) Toggle(ctx context.Context, userID uuid.UUID) (*entity.DayRecord, error) {
	record, err := s.EnsureToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	record.State = record.State.Toggled()
	record.UserID = userID
	if err := s.dayRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Current returns today's record without creating one. It returns
// (nil, nil) when no record exists for today.
func (s *DayService) Current(ctx context.Context) (*entity.DayRecord, error) {
	return s.dayRepo.GetByDate(ctx, s.today())
}
