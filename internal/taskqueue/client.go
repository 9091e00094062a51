package taskqueue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"invest-tracker/internal/model"
	"invest-tracker/internal/repository"
	"invest-tracker/pkg/utils"

	"github.com/google/uuid"
)

// TaskSpec describes one task to enqueue. GroupID tags a map-stage task;
// WaitGroupID makes the task wait until every task of that group is
// terminal before it becomes runnable.
type TaskSpec struct {
	Type        model.TaskType
	Payload     interface{}
	GroupID     string
	WaitGroupID string
}

type Client interface {
	Enqueue(ctx context.Context, spec TaskSpec, opts ...utils.DBOption) (*model.Task, error)
	EnqueueBatch(ctx context.Context, specs []TaskSpec, opts ...utils.DBOption) ([]model.Task, error)
	Status(ctx context.Context, id string) (*model.Task, error)
	Group(ctx context.Context, groupID string) ([]model.Task, error)
}

type client struct {
	taskRepo repository.TaskRepository
}

func NewClient(taskRepo repository.TaskRepository) Client {
	return &client{taskRepo: taskRepo}
}

func (c *client) Enqueue(ctx context.Context, spec TaskSpec, opts ...utils.DBOption) (*model.Task, error) {
	task, err := buildTask(spec)
	if err != nil {
		return nil, err
	}
	if err := c.taskRepo.Create(ctx, task, opts...); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *client) EnqueueBatch(ctx context.Context, specs []TaskSpec, opts ...utils.DBOption) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(specs))
	for _, spec := range specs {
		task, err := buildTask(spec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := c.taskRepo.CreateAll(ctx, tasks, opts...); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *client) Status(ctx context.Context, id string) (*model.Task, error) {
	return c.taskRepo.FindByID(ctx, id)
}

func (c *client) Group(ctx context.Context, groupID string) ([]model.Task, error) {
	return c.taskRepo.FindByGroup(ctx, groupID)
}

func buildTask(spec TaskSpec) (*model.Task, error) {
	payload, err := json.Marshal(spec.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := &model.Task{
		ID:      uuid.NewString(),
		Type:    spec.Type,
		Status:  model.TaskStatusPending,
		Payload: payload,
	}
	if spec.GroupID != "" {
		task.GroupID = sql.NullString{String: spec.GroupID, Valid: true}
	}
	if spec.WaitGroupID != "" {
		task.WaitGroupID = sql.NullString{String: spec.WaitGroupID, Valid: true}
	}
	return task, nil
}
