package service

import (
	"fmt"
	"time"

	"rentfleet/internal/repository"

	"github.com/rs/zerolog"
)

type JobService struct {
	repo *repository.JobRepository
	log  zerolog.Logger
}

func NewJobService(repo *repository.JobRepository, log zerolog.Logger) *JobService {
	return &JobService{repo: repo, log: log}
}

// CompleteFinishedBookings finds ACTIVE bookings past their end time, marks
// them COMPLETED and releases their vehicles.
func (s *JobService) CompleteFinishedBookings() error {
	ids, err := s.repo.GetActiveBookingIDsPastEnd()
	if err != nil {
		return fmt.Errorf("cron job: failed to get active bookings past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.CompleteBookings(ids); err != nil {
		return fmt.Errorf("cron job: failed to complete bookings: %w", err)
	}
	s.log.Info().Int("count", len(ids)).Msg("cron: completed bookings past end time")
	return nil
}

// CancelStalePending cancels PENDING bookings older than ttl.
func (s *JobService) CancelStalePending(ttl time.Duration) error {
	cancelled, err := s.repo.CancelStalePending(time.Now().Add(-ttl))
	if err != nil {
		return fmt.Errorf("cron job: failed to cancel stale pending bookings: %w", err)
	}
	if cancelled > 0 {
		s.log.Info().Int64("count", cancelled).Msg("cron: cancelled stale pending bookings")
	}
	return nil
}
