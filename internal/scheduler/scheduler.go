package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/campfin/fecload/internal/etl"
	"github.com/campfin/fecload/pkg/logger"
)

// RefreshScheduler triggers the ETL refresh on a cron spec. A trigger that
// lands while a previous run is still going is skipped, not queued.
type RefreshScheduler struct {
	cronEngine *cron.Cron
	guard      *etl.RunGuard
	spec       string
}

func New(guard *etl.RunGuard, spec string) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		guard:      guard,
		spec:       spec,
	}
}

func (s *RefreshScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		logger.Infof("Cron trigger: starting scheduled refresh")
		if err := s.guard.Refresh(context.Background()); err != nil {
			if errors.Is(err, etl.ErrRunInProgress) {
				logger.Warnf("Scheduled refresh skipped: previous run still in progress")
				return
			}
			logger.Errorf("Scheduled refresh failed: %v", err)
			return
		}
		logger.Infof("Scheduled refresh completed")
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	logger.Infof("Refresh scheduler started with spec %q", s.spec)
	return nil
}

func (s *RefreshScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	logger.Infof("Refresh scheduler stopped")
}
