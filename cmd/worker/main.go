package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mailprobe/internal/cache"
	"mailprobe/internal/config"
	"mailprobe/internal/queue"
	"mailprobe/internal/store"
	"mailprobe/internal/worker"
)

func main() {
	_ = godotenv.Load()
	logrus.Info("starting mailprobe worker")

	cfg := config.Load()

	if err := queue.Init(cfg.RedisAddr); err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}
	logrus.WithField("addr", cfg.RedisAddr).Info("connected to Redis")

	if err := store.Init(cfg.DBURL); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	logrus.Info("connected to PostgreSQL and migrations applied")

	if len(cfg.Proxies) > 0 {
		logrus.WithField("proxies", len(cfg.Proxies)).Info("proxy rotation enabled")
	} else {
		logrus.Info("no proxies configured, running with direct connections")
	}

	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		if len(cfg.Proxies) > 0 {
			concurrency = cfg.ProxyConcurrency * 2
			if concurrency < 10 {
				concurrency = 10
			}
		} else {
			concurrency = 50
		}
		logrus.WithField("concurrency", concurrency).Info("auto-tuned worker concurrency")
	}

	// Build the root context. Cancelling it on shutdown propagates cleanly
	// into the worker pool and the cache cleanup goroutine.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache.StartCleanup(ctx, 5*time.Minute)
	logrus.Info("cache eviction goroutine started (interval: 5m)")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go worker.Start(ctx, concurrency, cfg)

	<-quit
	logrus.Info("shutdown signal received, draining in-flight jobs")
	cancel()

	const drainTimeout = 30 * time.Second
	logrus.WithField("timeout", drainTimeout).Info("waiting for in-flight jobs to complete")
	time.Sleep(drainTimeout)

	logrus.Info("worker shut down cleanly")
}
