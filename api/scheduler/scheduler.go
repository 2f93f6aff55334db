package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sparkup/sparkup-api/databases"
)

const jobTimeout = 5 * time.Minute

// Scheduler handles periodic background jobs for startup membership data
type Scheduler struct {
	cron      *cron.Cron
	SDB       databases.StartupDatabase
	schedule  string
	retention time.Duration
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. Invite links are removed once they have
// been expired for longer than retention; redemption checks expiry on its own, so the
// job only keeps documents small.
func NewScheduler(sDB databases.StartupDatabase, schedule string, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		SDB:       sDB,
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.pruneExpiredInvites); err != nil {
		zap.S().Errorw("failed to register invite cleanup job", "schedule", s.schedule, "error", err)
		return err
	}
	s.cron.Start()
	zap.S().Infow("scheduler started", "inviteCleanup", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) pruneExpiredInvites() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.SDB.PullExpiredInvites(ctx, cutoff)
	if err != nil {
		zap.S().Errorw("failed to prune expired invite links", "cutoff", cutoff, "error", err)
		return
	}
	zap.S().Infow("pruned expired invite links", "startups", n, "cutoff", cutoff)
}
