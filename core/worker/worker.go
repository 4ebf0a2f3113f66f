package worker

import (
	"context"
	"fmt"

	"ndrop-api/core/config"
	"ndrop-api/core/logger"

	"github.com/hibiken/asynq"
)

const (
	TypeReconcileCounters    = "maintenance:reconcile_counters"
	TypeCleanupSelfCollected = "maintenance:cleanup_self_collected"
)

// EventMaintainer repairs participant counters against the source rows.
type EventMaintainer interface {
	ReconcileCounters(ctx context.Context) (int, error)
}

// CardMaintainer removes self-referential collected-card edges.
type CardMaintainer interface {
	CleanupSelfCollected(ctx context.Context) (int, error)
}

// Worker runs periodic maintenance tasks on asynq.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	events    EventMaintainer
	cards     CardMaintainer
}

func New(cfg config.RedisConfig, events EventMaintainer, cards CardMaintainer) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)

	return &Worker{
		server:    server,
		scheduler: scheduler,
		events:    events,
		cards:     cards,
	}
}

// Run registers the periodic tasks and blocks processing them.
func (w *Worker) Run() error {
	if _, err := w.scheduler.Register("@every 10m", asynq.NewTask(TypeReconcileCounters, nil)); err != nil {
		return err
	}
	if _, err := w.scheduler.Register("@every 1h", asynq.NewTask(TypeCleanupSelfCollected, nil)); err != nil {
		return err
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileCounters, w.handleReconcileCounters)
	mux.HandleFunc(TypeCleanupSelfCollected, w.handleCleanupSelfCollected)

	if err := w.scheduler.Start(); err != nil {
		return err
	}

	logger.Info("Maintenance worker started")
	return w.server.Run(mux)
}

// Shutdown stops the scheduler and waits for in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleReconcileCounters(ctx context.Context, _ *asynq.Task) error {
	repaired, err := w.events.ReconcileCounters(ctx)
	if err != nil {
		logger.Error("Worker:ReconcileCounters", err)
		return err
	}
	if repaired > 0 {
		logger.Info("Worker:ReconcileCounters:Repaired", "events", repaired)
	}
	return nil
}

func (w *Worker) handleCleanupSelfCollected(ctx context.Context, _ *asynq.Task) error {
	removed, err := w.cards.CleanupSelfCollected(ctx)
	if err != nil {
		logger.Error("Worker:CleanupSelfCollected", err)
		return err
	}
	if removed > 0 {
		logger.Info("Worker:CleanupSelfCollected:Removed", "edges", removed)
	}
	return nil
}
