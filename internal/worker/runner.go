// Package worker drains the Redis verification queue and persists each
// check_email result to Postgres.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"mailprobe/internal/config"
	"mailprobe/internal/pipeline"
	"mailprobe/internal/queue"
	"mailprobe/internal/store"
)

// Start launches a pool of worker goroutines and blocks until every goroutine
// has exited. The caller signals shutdown by cancelling ctx.
func Start(ctx context.Context, concurrency int, cfg config.Config) {
	logrus.WithField("concurrency", concurrency).Info("starting worker pool")

	var wg sync.WaitGroup

	for i := 1; i <= concurrency; i++ {
		wg.Add(1)

		go func(workerID int) {
			defer wg.Done()
			log := logrus.WithField("worker", workerID)

			for {
				// BLPop with a short timeout instead of 0 (block forever), so
				// the loop has a natural checkpoint to test ctx.Err() and exit
				// cleanly on shutdown even on an idle queue.
				result, err := queue.Client.BLPop(ctx, 2*time.Second, queue.QueueName).Result()
				if err != nil {
					if ctx.Err() != nil {
						log.Info("shutdown signal received, exiting")
						return
					}
					if errors.Is(err, queue.ErrNil) {
						continue
					}
					log.WithError(err).Warn("BLPop error, backing off 1s")
					select {
					case <-time.After(1 * time.Second):
					case <-ctx.Done():
						log.Info("shutdown during backoff, exiting")
						return
					}
					continue
				}

				rawJSON := result[1]
				var task queue.Task
				if err := json.Unmarshal([]byte(rawJSON), &task); err != nil {
					log.WithError(err).WithField("payload", rawJSON).Warn("malformed task, skipping")
					continue
				}

				processTask(ctx, workerID, task, cfg)
			}
		}(i)
	}

	wg.Wait()
	logrus.Info("all workers exited, pool shut down")
}

// processTask runs a single verification job and persists the result.
func processTask(ctx context.Context, workerID int, task queue.Task, cfg config.Config) {
	log := logrus.WithFields(logrus.Fields{"worker": workerID, "email": task.Email})

	// Each job gets its own bounded deadline so a probe that hangs (e.g. a
	// firewall silently dropping TCP to port 25) doesn't pin the worker slot
	// forever.
	jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	smtpCfg := cfg.SmtpConfig
	if id, ok := cfg.ProxyRotator.Next(); ok {
		smtpCfg.ProxyID = id
	}

	out := pipeline.CheckEmail(jobCtx, pipeline.Input{
		ToEmail:              task.Email,
		VerifMethod:          cfg.VerifMethod,
		Proxies:              cfg.Proxies,
		SmtpConfig:           smtpCfg,
		CheckGravatar:        cfg.CheckGravatar,
		HaveIBeenPwnedAPIKey: cfg.HaveIBeenPwnedAPIKey,
		BackendName:          cfg.BackendName,
	})

	resultJSON, err := json.Marshal(out)
	if err != nil {
		log.WithError(err).Error("failed to marshal result")
		return
	}

	// Use the parent ctx, not jobCtx, for the DB write: the verification
	// deadline shouldn't also cut off persisting a result we already have.
	tx, err := store.DB.Begin(ctx)
	if err != nil {
		log.WithError(err).Error("DB transaction error")
		return
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO results (job_id, email, reachability, data)
		VALUES ($1, $2, $3, $4)
	`, task.JobID, task.Email, string(out.IsReachable), resultJSON)
	if err != nil {
		log.WithError(err).Error("failed to insert result")
		return
	}

	_, err = tx.Exec(ctx, `
		UPDATE jobs
		SET processed_count = processed_count + 1,
		    status = CASE WHEN processed_count + 1 >= total_count THEN 'completed' ELSE status END,
		    completed_at = CASE WHEN processed_count + 1 >= total_count THEN NOW() ELSE completed_at END
		WHERE id = $1
	`, task.JobID)
	if err != nil {
		log.WithError(err).Error("failed to update job progress")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Error("failed to commit")
		return
	}

	log.WithField("reachability", out.IsReachable).Info("processed")
}
