package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timeblocker/internal/config"
	"timeblocker/internal/logging"
	"timeblocker/internal/repository"
	"timeblocker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		errLog := logging.New("error")
		errLog.Fatal().Err(err).Msg("config")
	}

	log := logging.New(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	limiter := service.NewUserLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	schedulingSvc := service.NewSchedulingService(db, log, limiter)

	scheduler := service.NewSweepScheduler(time.Local)
	sweep := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		created, err := schedulingSvc.RegenerateDueRoutines(jobCtx)
		if err != nil {
			log.Error().Err(err).Msg("regeneration sweep")
			return
		}
		log.Info().Int("created", created).Msg("regeneration sweep finished")
	}

	switch {
	case cfg.SweepTime != "":
		if _, err := scheduler.ScheduleDaily(cfg.SweepTime, sweep); err != nil {
			log.Fatal().Err(err).Msg("schedule daily sweep")
		}
	case cfg.SweepInterval > 0:
		if _, err := scheduler.ScheduleEvery(cfg.SweepInterval, sweep); err != nil {
			log.Fatal().Err(err).Msg("schedule sweep")
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info().
		Str("database", cfg.DatabaseURL).
		Str("sweep_time", cfg.SweepTime).
		Dur("sweep_interval", cfg.SweepInterval).
		Msg("scheduling engine started")

	<-ctx.Done()
	log.Info().Msg("shutdown complete")
}
