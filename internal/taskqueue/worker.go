package taskqueue

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"
)

// Handler processes one task. The returned bytes, when not nil, are stored
// as the task result. A returned error marks the task failed; the group
// barrier still clears either way.
type Handler func(ctx context.Context, task *model.Task) ([]byte, error)

var errNoHandler = errors.New("no handler registered for task type")

// Worker polls the task table and dispatches runnable tasks to registered
// handlers, at most cfg.MaxConcurrency at a time.
type Worker struct {
	cfg      config.Worker
	taskRepo repository.TaskRepository
	logger   *logger.Logger
	handlers map[model.TaskType]Handler
	sem      chan struct{}
}

func NewWorker(cfg config.Worker, taskRepo repository.TaskRepository, log *logger.Logger) *Worker {
	return &Worker{
		cfg:      cfg,
		taskRepo: taskRepo,
		logger:   log,
		handlers: make(map[model.TaskType]Handler),
		sem:      make(chan struct{}, cfg.MaxConcurrency),
	}
}

// Register binds a handler to a task type. Not safe to call once Run has
// started.
func (w *Worker) Register(taskType model.TaskType, handler Handler) {
	w.handlers[taskType] = handler
}

// Run polls until the context is cancelled. Each poll drains as many
// runnable tasks as there are free worker slots.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("task worker started",
		logger.IntField("max_concurrency", w.cfg.MaxConcurrency))

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("task worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			return
		default:
			return
		}

		task, err := w.taskRepo.ClaimRunnable(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to claim task", logger.ErrorField(err))
			<-w.sem
			return
		}
		if task == nil {
			<-w.sem
			return
		}

		utils.GoSafe(func() {
			defer func() { <-w.sem }()
			w.process(ctx, task)
		})
	}
}

func (w *Worker) process(ctx context.Context, task *model.Task) {
	log := w.logger.With(
		logger.StringField("task_id", task.ID),
		logger.StringField("task_type", string(task.Type)),
	)

	handler, ok := w.handlers[task.Type]
	if !ok {
		log.Error("no handler registered for task type")
		w.finish(ctx, task, nil, errNoHandler)
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, w.cfg.TaskTimeout)
	defer cancel()

	result, err := handler(taskCtx, task)
	if err != nil {
		log.ErrorContext(ctx, "task failed", logger.ErrorField(err))
	} else {
		log.InfoContext(ctx, "task completed")
	}
	w.finish(ctx, task, result, err)
}

func (w *Worker) finish(ctx context.Context, task *model.Task, result []byte, taskErr error) {
	now := time.Now()
	task.CompletedAt = sql.NullTime{Time: now, Valid: true}
	if taskErr != nil {
		task.Status = model.TaskStatusFailed
		task.ErrorMessage = sql.NullString{String: taskErr.Error(), Valid: true}
	} else {
		task.Status = model.TaskStatusCompleted
		task.Result = result
	}

	// Status updates survive the per-task timeout, otherwise a timed-out
	// task would be stuck running forever.
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := w.taskRepo.Update(updateCtx, task); err != nil {
		w.logger.Error("failed to update task status",
			logger.StringField("task_id", task.ID),
			logger.ErrorField(err))
	}
}
