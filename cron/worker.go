package cron

import (
	"context"
	"fmt"
	"time"

	"agendo/config"
	"agendo/services/booking"
	"agendo/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeHoldSweep = "holds:sweep"

// InitSweepWorker starts the background hold-expiration sweep: an asynq
// scheduler enqueues the sweep task on the configured interval and a
// worker executes it. This is the only standing background activity in
// the process; the returned function stops both on shutdown.
func InitSweepWorker(holds *booking.HoldManager) (shutdown func()) {
	logger := utils.GetLogger()
	redisOpts := utils.QueueRedisOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldSweep, handleSweepTask(holds))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	interval := config.AppConfig.SweepIntervalSec
	if interval <= 0 {
		interval = 60
	}
	spec := fmt.Sprintf("@every %ds", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeHoldSweep, nil)); err != nil {
		logger.Fatal("failed to register sweep schedule", zap.Error(err))
	}

	go func() {
		logger.Info("starting hold sweep worker", zap.String("interval", spec))
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("sweep worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("sweep worker exhausted retries")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Fatal("sweep scheduler failed", zap.Error(err))
		}
	}()

	return func() {
		scheduler.Shutdown()
		srv.Shutdown()
	}
}

func handleSweepTask(holds *booking.HoldManager) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		swept, err := holds.SweepExpired(ctx)
		if err != nil {
			utils.GetLogger().Error("hold sweep failed", zap.Error(err))
			return err
		}
		if swept > 0 {
			utils.GetLogger().Debug("hold sweep completed", zap.Int("swept", swept))
		}
		return nil
	}
}
