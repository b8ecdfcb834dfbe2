package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// OverdueSweeper marks active records past their due date as overdue. Book
// state is left alone: overdue is an annotation on the record only.
type OverdueSweeper struct {
	records ports.RecordRepository
	log     zerolog.Logger
}

var _ ports.Sweeper = (*OverdueSweeper)(nil)

func NewOverdueSweeper(records ports.RecordRepository, log zerolog.Logger) *OverdueSweeper {
	return &OverdueSweeper{records: records, log: log}
}

// Sweep transitions every active record with a due date before now and
// returns how many changed. A second call with the same now changes nothing.
func (s *OverdueSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	n, err := s.records.MarkOverdue(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep overdue: %w", err)
	}
	if n > 0 {
		s.log.Info().Int("count", n).Time("now", now).Msg("records marked " + string(domain.StatusOverdue))
	}
	return n, nil
}
