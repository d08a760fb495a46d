// Command worker runs the job worker, the change monitor and the event
// processor for all configured backends.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	syncapp "github.com/erp/connector/internal/application/sync"
	"github.com/erp/connector/internal/infrastructure/config"
	"github.com/erp/connector/internal/infrastructure/event"
	"github.com/erp/connector/internal/infrastructure/lock"
	"github.com/erp/connector/internal/infrastructure/logger"
	"github.com/erp/connector/internal/infrastructure/persistence"
	"github.com/erp/connector/internal/infrastructure/queue"
	"github.com/erp/connector/internal/infrastructure/work"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormlogger.Warn)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	locker, err := lock.NewRedisLocker(lock.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Worker.LockTTL)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	flows := syncapp.NewFlows()
	builder := work.NewBuilder(db.DB, locker, cfg.Remote.RequestsPerSecond, log)
	worker := queue.NewWorker(db.DB, flows, builder, cfg.Worker, log)

	backends := persistence.NewGormBackendRepository(db.DB)
	jobQueue := queue.NewGormJobQueue(db.DB)
	processor := event.NewProcessor(db.DB, backends, jobQueue, cfg.Event, log)
	monitor := event.NewMonitor(db.DB, cfg.Event, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("worker starting",
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.Duration("poll_interval", cfg.Worker.PollInterval))

	errCh := make(chan error, 3)
	go func() { errCh <- worker.Run(ctx) }()
	go func() { errCh <- processor.Run(ctx) }()
	go func() { errCh <- monitor.Run(ctx) }()

	if err := <-errCh; err != nil && err != context.Canceled {
		log.Error("worker stopped", zap.Error(err))
	}
	log.Info("worker shut down")
}
