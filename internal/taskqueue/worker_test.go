package taskqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"invest-tracker/config"
	"invest-tracker/internal/model"
	"invest-tracker/pkg/logger"
	"invest-tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTaskRepo records Update calls and serves a fixed claim queue.
type fakeTaskRepo struct {
	queue   []*model.Task
	updated []model.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	return nil
}

func (f *fakeTaskRepo) CreateAll(ctx context.Context, tasks []model.Task, opts ...utils.DBOption) error {
	return nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	f.updated = append(f.updated, *task)
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) FindByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) ClaimRunnable(ctx context.Context) (*model.Task, error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	task := f.queue[0]
	f.queue = f.queue[1:]
	task.Status = model.TaskStatusRunning
	return task, nil
}

func workerConfig() config.Worker {
	return config.Worker{
		PollInterval:   10 * time.Millisecond,
		MaxConcurrency: 2,
		TaskTimeout:    time.Second,
	}
}

func newTask(taskType model.TaskType) *model.Task {
	return &model.Task{
		ID:     uuid.NewString(),
		Type:   taskType,
		Status: model.TaskStatusRunning,
	}
}

func TestProcessStoresHandlerResult(t *testing.T) {
	repo := &fakeTaskRepo{}
	w := NewWorker(workerConfig(), repo, logger.NewNop())
	w.Register(model.TaskTypeTAGenerate, func(ctx context.Context, task *model.Task) ([]byte, error) {
		return []byte(`{"ok":true}`), nil
	})

	w.process(context.Background(), newTask(model.TaskTypeTAGenerate))

	require.Len(t, repo.updated, 1)
	got := repo.updated[0]
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	assert.Equal(t, `{"ok":true}`, string(got.Result))
	assert.True(t, got.CompletedAt.Valid)
	assert.False(t, got.ErrorMessage.Valid)
}

func TestProcessMarksFailedOnHandlerError(t *testing.T) {
	repo := &fakeTaskRepo{}
	w := NewWorker(workerConfig(), repo, logger.NewNop())
	w.Register(model.TaskTypeTAGenerate, func(ctx context.Context, task *model.Task) ([]byte, error) {
		return nil, errors.New("upstream unavailable")
	})

	w.process(context.Background(), newTask(model.TaskTypeTAGenerate))

	require.Len(t, repo.updated, 1)
	got := repo.updated[0]
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	assert.Equal(t, "upstream unavailable", got.ErrorMessage.String)
	assert.Empty(t, got.Result)
	assert.True(t, got.CompletedAt.Valid)
}

func TestProcessFailsUnregisteredType(t *testing.T) {
	repo := &fakeTaskRepo{}
	w := NewWorker(workerConfig(), repo, logger.NewNop())

	w.process(context.Background(), newTask(model.TaskTypeSendTelegram))

	require.Len(t, repo.updated, 1)
	got := repo.updated[0]
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	assert.Equal(t, errNoHandler.Error(), got.ErrorMessage.String)
}

func TestProcessHandlerSeesTaskTimeout(t *testing.T) {
	repo := &fakeTaskRepo{}
	cfg := workerConfig()
	cfg.TaskTimeout = time.Millisecond
	w := NewWorker(cfg, repo, logger.NewNop())
	w.Register(model.TaskTypeTAGenerate, func(ctx context.Context, task *model.Task) ([]byte, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return nil, errors.New("deadline never fired")
		}
	})

	w.process(context.Background(), newTask(model.TaskTypeTAGenerate))

	require.Len(t, repo.updated, 1)
	got := repo.updated[0]
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), got.ErrorMessage.String)
}

func TestEnqueueBatchTagsGroup(t *testing.T) {
	repo := &fakeTaskRepo{}
	c := NewClient(repo)

	groupID := uuid.NewString()
	tasks, err := c.EnqueueBatch(context.Background(), []TaskSpec{
		{Type: model.TaskTypeTAGenerate, GroupID: groupID, Payload: map[string]int{"company_id": 1}},
		{Type: model.TaskTypeTAGenerate, GroupID: groupID, Payload: map[string]int{"company_id": 2}},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.Equal(t, groupID, task.GroupID.String)
		assert.False(t, task.WaitGroupID.Valid)
	}
}

func TestEnqueueSetsWaitGroup(t *testing.T) {
	repo := &fakeTaskRepo{}
	c := NewClient(repo)

	groupID := uuid.NewString()
	task, err := c.Enqueue(context.Background(), TaskSpec{
		Type:        model.TaskTypeTAFinalize,
		WaitGroupID: groupID,
		Payload:     map[string]bool{"send_message": true},
	})
	require.NoError(t, err)
	assert.Equal(t, groupID, task.WaitGroupID.String)
	assert.False(t, task.GroupID.Valid)
}
