package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// RecordService reads the borrow log. Status-bearing reads sweep first so
// that overdue loans are reported as such without waiting for the scheduler.
type RecordService struct {
	records ports.RecordRepository
	sweeper ports.Sweeper
	clock   ports.Clock
	log     zerolog.Logger
}

var _ ports.RecordService = (*RecordService)(nil)

func NewRecordService(records ports.RecordRepository, sweeper ports.Sweeper, clock ports.Clock, log zerolog.Logger) *RecordService {
	return &RecordService{records: records, sweeper: sweeper, clock: clock, log: log}
}

func (s *RecordService) ListBorrowRecords(ctx context.Context, status domain.BorrowStatus) ([]*domain.BorrowRecord, error) {
	if status != "" && !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	s.refresh(ctx)

	records, err := s.records.List(ctx, domain.RecordFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	return records, nil
}

func (s *RecordService) GetBorrowRecord(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	s.refresh(ctx)

	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get borrow record: %w", err)
	}
	return record, nil
}

// GetUserHistory returns every loan of userID, newest first.
func (s *RecordService) GetUserHistory(ctx context.Context, userID string) ([]*domain.BorrowRecord, error) {
	s.refresh(ctx)

	records, err := s.records.List(ctx, domain.RecordFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("user history: %w", err)
	}
	return records, nil
}

// refresh sweeps with the current time. A failed sweep only makes the
// statuses stale, so it is logged and the read goes ahead.
func (s *RecordService) refresh(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx, s.clock.Now()); err != nil {
		s.log.Warn().Err(err).Msg("on-demand overdue sweep failed")
	}
}
