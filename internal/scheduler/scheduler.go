package scheduler

import (
	"context"
	"fmt"
	"time"

	"esportfed/internal/logger"
	"esportfed/internal/metrics"

	"github.com/robfig/cron/v3"
)

const queueGaugeSchedule = "@every 30s"

type Expirer interface {
	ExpireEnded(ctx context.Context, now time.Time) (int, error)
}

type QueueMeter interface {
	QueueLength(ctx context.Context) int64
}

type Scheduler struct {
	cron    *cron.Cron
	members Expirer
	queue   QueueMeter
	now     func() time.Time
}

func New(members Expirer, queue QueueMeter) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		members: members,
		queue:   queue,
		now:     time.Now,
	}
}

// Start registers the jobs and starts the cron loop. expirySchedule is a
// cron spec such as "@daily" or "0 3 * * *".
func (s *Scheduler) Start(expirySchedule string) error {
	if _, err := s.cron.AddFunc(expirySchedule, s.RunExpiry); err != nil {
		return fmt.Errorf("schedule membership expiry %q: %w", expirySchedule, err)
	}
	if _, err := s.cron.AddFunc(queueGaugeSchedule, s.RecordQueueLength); err != nil {
		return fmt.Errorf("schedule queue gauge: %w", err)
	}

	s.cron.Start()
	logger.Info("scheduler started", "expiry_schedule", expirySchedule)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RunExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.members.ExpireEnded(ctx, s.now())
	if err != nil {
		logger.Error("membership expiry sweep failed", "error", err)
		return
	}
	logger.Info("membership expiry sweep done", "expired", n)
}

func (s *Scheduler) RecordQueueLength() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics.SetEmailQueueLength(s.queue.QueueLength(ctx))
}
