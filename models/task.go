package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// Next advances the task through its cycle:
// Pending -> In Progress -> Completed -> Pending.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskPending:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	default:
		return TaskPending
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId"             json:"ownerId"`
	Title       string             `bson:"title"               json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus         `bson:"status"              json:"status"`
	Priority    TaskPriority       `bson:"priority"            json:"priority"`
	DueDate     string             `bson:"dueDate,omitempty"   json:"dueDate,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"           json:"createdAt"`
}
