package services

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// OrphanSweeper periodically removes tasks whose project no longer exists.
// On backends where DeleteProject runs in a real transaction it finds
// nothing; it catches tasks that slipped through elsewhere.
type OrphanSweeper struct {
	store    store.Store
	schedule string
	timeout  time.Duration

	cronScheduler *cron.Cron
}

func NewOrphanSweeper(st store.Store, schedule string) *OrphanSweeper {
	return &OrphanSweeper{
		store:    st,
		schedule: schedule,
		timeout:  time.Minute,
	}
}

func (s *OrphanSweeper) Start() error {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc(s.schedule, s.run); err != nil {
		s.cronScheduler = nil
		return err
	}
	s.cronScheduler.Start()
	logger.Infof("[Sweeper] Orphan task sweeper scheduled: %s", s.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *OrphanSweeper) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
		s.cronScheduler = nil
	}
}

func (s *OrphanSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		logger.Errorf("[Sweeper] Failed to sweep orphan tasks: %v", err)
	}
}

// Sweep performs one pass and returns the number of tasks removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.store.Tasks().DeleteOrphans(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Warn().Int64("tasks_removed", removed).Msg("orphan tasks removed")
	} else {
		logger.Debugf("[Sweeper] No orphan tasks found")
	}
	return removed, nil
}
