package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sujal-debug/Policy-IQ/internal/claims"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Worker consumes batch run tasks and executes them with a hard
// deadline. Asynq retries a failed batch task with its own backoff.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	runner   *claims.Runner
	deadline time.Duration
	log      *logger.Logger
}

func NewWorker(redisURL, queue string, runner *claims.Runner, deadline time.Duration, log *logger.Logger) (*Worker, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		// Batches are sequential on purpose: one inbox, one pass.
		Concurrency: 1,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		runner:   runner,
		deadline: deadline,
		log:      log,
	}

	mux.HandleFunc(TaskClaimsBatchRun, w.handleBatchRun)

	return w, nil
}

func (w *Worker) handleBatchRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBatchRunPayload(task)
	if err != nil {
		return err
	}
	w.log.Info("batch run task received", "requested_by", payload.RequestedBy)

	runCtx := ctx
	if w.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.deadline)
		defer cancel()
	}

	_, err = w.runner.RunOnce(runCtx)
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// Poller enqueues a batch run on a fixed interval. It lives next to the
// API process so a single deployment drives the schedule.
type Poller struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewPoller(client *Client, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{client: client, interval: interval, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		payload := BatchRunPayload{RequestedBy: "scheduler", RequestedAt: time.Now()}
		if err := p.client.EnqueueBatchRun(ctx, payload, p.interval); err != nil {
			p.log.Warn("failed to enqueue batch run", "error", err)
		}
	}
}
