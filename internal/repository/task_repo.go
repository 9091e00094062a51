package repository

import (
	"context"
	"errors"

	"invest-tracker/internal/model"
	"invest-tracker/pkg/utils"

	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task, opts ...utils.DBOption) error
	CreateAll(ctx context.Context, tasks []model.Task, opts ...utils.DBOption) error
	Update(ctx context.Context, task *model.Task, opts ...utils.DBOption) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	FindByGroup(ctx context.Context, groupID string) ([]model.Task, error)
	ClaimRunnable(ctx context.Context) (*model.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(task).Error
}

func (r *taskRepository) CreateAll(ctx context.Context, tasks []model.Task, opts ...utils.DBOption) error {
	if len(tasks) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(&tasks).Error
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByGroup(ctx context.Context, groupID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ClaimRunnable atomically picks the oldest pending task whose barrier has
// cleared and marks it running. A task waiting on a group becomes runnable
// only when every task of that group is terminal. SKIP LOCKED lets several
// workers poll the same table without contending for the same row.
func (r *taskRepository) ClaimRunnable(ctx context.Context) (*model.Task, error) {
	var task model.Task
	res := r.db.WithContext(ctx).Raw(`
		UPDATE tasks SET status = ?, started_at = NOW()
		WHERE id = (
			SELECT t.id FROM tasks t
			WHERE t.status = ?
			  AND (t.wait_group_id IS NULL OR NOT EXISTS (
				SELECT 1 FROM tasks g
				WHERE g.group_id = t.wait_group_id
				  AND g.status NOT IN (?)
			  ))
			ORDER BY t.created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING *`,
		model.TaskStatusRunning,
		model.TaskStatusPending,
		[]model.TaskStatus{model.TaskStatusCompleted, model.TaskStatusFailed},
	).Scan(&task)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &task, nil
}
