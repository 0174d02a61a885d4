package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campfin/fecload/internal/config"
	"github.com/campfin/fecload/internal/etl"
	"github.com/campfin/fecload/internal/scheduler"
	"github.com/campfin/fecload/internal/server"
	"github.com/campfin/fecload/pkg/logger"
	"github.com/campfin/fecload/pkg/warehouse"
)

// refreshOnce wires up a fresh pipeline and runs it to completion. The
// cutoff and period list derive from the moment the run starts, so serve
// mode rebuilds the pipeline on every trigger.
func refreshOnce(ctx context.Context, cfg *config.Config) error {
	wh, err := warehouse.Connect(ctx, cfg.BQProject, cfg.CredentialsPath, cfg.Dataset)
	if err != nil {
		return err
	}
	defer wh.Close()

	now := time.Now()
	mapper := etl.NewMapper(now)
	fetcher := etl.NewFetcher(cfg.FECAPIKey, mapper.Cutoff)
	loader := etl.NewBigQueryLoader(wh.Inserter(cfg.StagingTable), cfg.StagingTable)
	pipeline := etl.NewPipeline(fetcher, mapper, loader, wh,
		cfg.StagingTable, cfg.FinalTable, etl.RecentPeriods(now))

	_, err = pipeline.Run(ctx)
	return err
}

func runRefresh(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.Environment)

	return refreshOnce(ctx, cfg)
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.Environment)

	guard := etl.NewRunGuard(func(ctx context.Context) error {
		return refreshOnce(ctx, cfg)
	})

	srv := server.New(guard)

	if cfg.CronSpec != "" {
		sched := scheduler.New(guard, cfg.CronSpec)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.ListenAddr)
	}()
	logger.Infof("Listening on %s", cfg.ListenAddr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		logger.Infof("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
