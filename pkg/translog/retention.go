package translog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
)

// Scheduler prunes old transfer records on a cron schedule.
type Scheduler struct {
	storage *Storage
	cfg     config.TransferLogConfig
	cron    *cron.Cron
}

// NewScheduler creates a retention scheduler over the given storage.
func NewScheduler(storage *Storage, cfg config.TransferLogConfig) *Scheduler {
	return &Scheduler{
		storage: storage,
		cfg:     cfg,
		cron:    cron.New(),
	}
}

// Start begins scheduled pruning. A zero RetentionDays disables pruning
// entirely. The scheduler stops when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.RetentionDays <= 0 {
		slog.Info("transfer log retention disabled")
		return nil
	}

	if _, err := cron.ParseStandard(s.cfg.RetentionSchedule); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.cfg.RetentionSchedule, err)
	}

	_, err := s.cron.AddFunc(s.cfg.RetentionSchedule, func() {
		s.prune(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention pruning: %w", err)
	}

	s.cron.Start()

	slog.Info("transfer log retention scheduled",
		"schedule", s.cfg.RetentionSchedule,
		"retention_days", s.cfg.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()

	return nil
}

func (s *Scheduler) prune(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	n, err := s.storage.PruneBefore(ctx, cutoff)
	if err != nil {
		slog.Error("transfer log pruning failed", "error", err)
		return
	}

	slog.Info("transfer log pruned", "removed", n, "cutoff", cutoff.Format(time.RFC3339))
}
