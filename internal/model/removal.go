package model

import (
	"time"

	"github.com/google/uuid"
)

type RemovalTaskStatus string

const (
	RemovalTaskPending    RemovalTaskStatus = "pending"
	RemovalTaskInProgress RemovalTaskStatus = "in_progress"
	RemovalTaskCompleted  RemovalTaskStatus = "completed"
	RemovalTaskCancelled  RemovalTaskStatus = "cancelled"
)

// Active reports whether the task still reserves its billboards.
func (s RemovalTaskStatus) Active() bool {
	return s == RemovalTaskPending || s == RemovalTaskInProgress
}

type RemovalItemStatus string

const (
	RemovalItemPending   RemovalItemStatus = "pending"
	RemovalItemCompleted RemovalItemStatus = "completed"
)

type RemovalTask struct {
	ID              uuid.UUID
	ContractNumbers []string `gorm:"-"`
	TeamID          uuid.UUID
	Status          RemovalTaskStatus
	CreatedAt       time.Time
	Items           []RemovalTaskItem `gorm:"-"`
}

type RemovalTaskItem struct {
	ID                uuid.UUID
	TaskID            uuid.UUID
	BillboardID       int64
	Status            RemovalItemStatus
	CompletedAt       *time.Time
	RemovalDate       *time.Time
	Notes             *string
	DesignFaceA       *string
	DesignFaceB       *string
	InstalledImageURL *string
	RemovedImageURL   *string
}

// ActiveRemovalItem is an item joined with the status of its parent task.
type ActiveRemovalItem struct {
	RemovalTaskItem
	TaskStatus RemovalTaskStatus
}
