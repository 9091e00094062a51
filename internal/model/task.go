package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Terminal reports whether the task has finished, successfully or not.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

type TaskType string

const (
	TaskTypeTAGenerate   TaskType = "ta_generate"
	TaskTypeTAFinalize   TaskType = "ta_finalize"
	TaskTypeSendTelegram TaskType = "send_telegram"
)

// Task is one unit of background work. Map-stage tasks carry a GroupID;
// a reducer carries WaitGroupID and becomes runnable only once every task
// of that group reached a terminal status.
type Task struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID      sql.NullString `gorm:"type:uuid;index" json:"group_id"`
	WaitGroupID  sql.NullString `gorm:"type:uuid;index" json:"wait_group_id"`
	Type         TaskType       `gorm:"type:varchar(32);not null" json:"type"`
	Status       TaskStatus     `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Result       datatypes.JSON `gorm:"type:jsonb" json:"result"`
	ErrorMessage sql.NullString `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	StartedAt    sql.NullTime   `json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
}

func (Task) TableName() string {
	return "tasks"
}
