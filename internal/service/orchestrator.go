package service

import (
	"context"
	"encoding/json"
	"fmt"

	"invest-tracker/internal/dto"
	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/internal/taskqueue"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/telegram"
	"invest-tracker/pkg/utils"

	"github.com/google/uuid"
)

// Orchestrator drives the scatter/gather decision pipeline: one generate
// task per company, then a finalize task gated on the whole group, which
// persists decisions and fans out notification tasks.
type Orchestrator interface {
	StartGenerate(ctx context.Context, params dto.StartGenerateParams) (*dto.TaskResponse, error)
	TaskStatus(ctx context.Context, taskID string) (*dto.TaskStatusResponse, error)
	RegisterHandlers(worker *taskqueue.Worker)
}

type orchestrator struct {
	logger    *logger.Logger
	taService TAService
	tasks     taskqueue.Client
	notifier  telegram.Notifier
	uow       repository.UnitOfWork
}

func NewOrchestrator(
	log *logger.Logger,
	taService TAService,
	tasks taskqueue.Client,
	notifier telegram.Notifier,
	uow repository.UnitOfWork,
) Orchestrator {
	return &orchestrator{
		logger:    log,
		taService: taService,
		tasks:     tasks,
		notifier:  notifier,
		uow:       uow,
	}
}

func (o *orchestrator) RegisterHandlers(worker *taskqueue.Worker) {
	worker.Register(model.TaskTypeTAGenerate, o.handleGenerate)
	worker.Register(model.TaskTypeTAFinalize, o.handleFinalize)
	worker.Register(model.TaskTypeSendTelegram, o.handleSendTelegram)
}

// StartGenerate snapshots the user's companies, enqueues one generate task
// per company under a fresh group and a finalize task waiting on that
// group. The finalize task's ID is the batch handle callers poll.
func (o *orchestrator) StartGenerate(ctx context.Context, params dto.StartGenerateParams) (*dto.TaskResponse, error) {
	companies, err := o.taService.BuildCompanyDTOs(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("user %d has no companies", params.UserID)
	}

	groupID := uuid.NewString()
	specs := make([]taskqueue.TaskSpec, 0, len(companies))
	for _, company := range companies {
		specs = append(specs, taskqueue.TaskSpec{
			Type:    model.TaskTypeTAGenerate,
			GroupID: groupID,
			Payload: dto.GenerateTaskPayload{
				Company: company,
				Period:  params.Period,
				UserID:  params.UserID,
			},
		})
	}

	// Map tasks and their reducer land in one transaction: either the whole
	// graph exists or none of it does.
	var finalTask *model.Task
	err = o.uow.Run(func(opts ...utils.DBOption) error {
		if _, err := o.tasks.EnqueueBatch(ctx, specs, opts...); err != nil {
			return fmt.Errorf("failed to enqueue generate tasks: %w", err)
		}

		finalTask, err = o.tasks.Enqueue(ctx, taskqueue.TaskSpec{
			Type:        model.TaskTypeTAFinalize,
			WaitGroupID: groupID,
			Payload: dto.FinalizeTaskPayload{
				UserID:          params.UserID,
				SendMessage:     params.SendMessage,
				UpdateDB:        params.UpdateDB,
				SendTestMessage: params.SendTestMessage,
			},
		}, opts...)
		if err != nil {
			return fmt.Errorf("failed to enqueue finalize task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "generation batch dispatched",
		logger.IntField("companies", len(companies)),
		logger.StringField("group_id", groupID),
		logger.StringField("final_task_id", finalTask.ID))

	return &dto.TaskResponse{ID: finalTask.ID, Status: finalTask.Status}, nil
}

func (o *orchestrator) TaskStatus(ctx context.Context, taskID string) (*dto.TaskStatusResponse, error) {
	task, err := o.tasks.Status(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &dto.TaskStatusResponse{
		ID:     task.ID,
		Status: task.Status,
		Result: string(task.Result),
	}, nil
}

func (o *orchestrator) handleGenerate(ctx context.Context, task *model.Task) ([]byte, error) {
	var payload dto.GenerateTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid generate payload: %w", err)
	}

	decisions := o.taService.DecideForCompany(ctx, payload.Company, payload.Period)

	o.logger.InfoContext(ctx, "decisions generated",
		logger.StringField("ticker", payload.Company.Ticker),
		logger.IntField("count", len(decisions)))

	return json.Marshal(decisions)
}

// handleFinalize gathers the decision lists of its group, persists and
// notifies as requested. Failed map tasks contribute nothing; their share
// of the batch was already logged by the worker.
func (o *orchestrator) handleFinalize(ctx context.Context, task *model.Task) ([]byte, error) {
	var payload dto.FinalizeTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid finalize payload: %w", err)
	}
	if !task.WaitGroupID.Valid {
		return nil, fmt.Errorf("finalize task %s has no wait group", task.ID)
	}

	decisions, err := o.gatherDecisions(ctx, task.WaitGroupID.String)
	if err != nil {
		return nil, err
	}

	if payload.UpdateDB {
		if err := o.taService.PersistDecisions(ctx, decisions); err != nil {
			return nil, fmt.Errorf("failed to persist decisions: %w", err)
		}
	}

	var messages []string
	if payload.SendMessage {
		messages = o.taService.GenerateBulkMessages(decisions, payload.SendTestMessage)
		for _, message := range messages {
			_, err := o.tasks.Enqueue(ctx, taskqueue.TaskSpec{
				Type:    model.TaskTypeSendTelegram,
				Payload: dto.SendTelegramPayload{Message: message},
			})
			if err != nil {
				o.logger.ErrorContext(ctx, "failed to enqueue telegram task",
					logger.ErrorField(err))
			}
		}
	}

	return json.Marshal(map[string]int{
		"decisions": len(decisions),
		"messages":  len(messages),
	})
}

// handleSendTelegram posts one message, at most once. Delivery errors are
// logged and swallowed, a lost notification is cheaper than a retry storm.
func (o *orchestrator) handleSendTelegram(ctx context.Context, task *model.Task) ([]byte, error) {
	var payload dto.SendTelegramPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid telegram payload: %w", err)
	}

	if err := o.notifier.Send(ctx, payload.Message); err != nil {
		o.logger.ErrorContext(ctx, "failed to send telegram message",
			logger.ErrorField(err))
	}
	return nil, nil
}

func (o *orchestrator) gatherDecisions(ctx context.Context, groupID string) ([]dto.DecisionDTO, error) {
	groupTasks, err := o.tasks.Group(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group tasks: %w", err)
	}

	var decisions []dto.DecisionDTO
	for _, groupTask := range groupTasks {
		if groupTask.Status != model.TaskStatusCompleted || len(groupTask.Result) == 0 {
			continue
		}
		var taskDecisions []dto.DecisionDTO
		if err := json.Unmarshal(groupTask.Result, &taskDecisions); err != nil {
			o.logger.ErrorContext(ctx, "failed to decode task result",
				logger.StringField("task_id", groupTask.ID),
				logger.ErrorField(err))
			continue
		}
		decisions = append(decisions, taskDecisions...)
	}

	return decisions, nil
}
