package domain

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus = string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is an allowed task status.
func ValidTaskStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is a unit of work assigned to a profile.
type Task struct {
	ID          int64      `json:"id" bson:"_id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" bson:"title" gorm:"not null"`
	Description *string    `json:"description" bson:"description,omitempty"`
	Status      string     `json:"status" bson:"status" gorm:"not null;default:pending"`
	DueDate     *time.Time `json:"due_date" bson:"due_date,omitempty"`
	Assignment  `bson:",inline" gorm:"embedded"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" gorm:"autoCreateTime"`
}

func (Task) TableName() string { return CollectionTasks }

func (t *Task) RecordID() int64 { return t.ID }

func (t *Task) Assign(id int64, createdAt time.Time) {
	t.ID = id
	t.CreatedAt = createdAt
}

func (t Task) SearchFields() []string { return []string{t.Title, optional(t.Description)} }

func (t Task) StatusValue() string { return t.Status }

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return InvalidField("title", "is required")
	}
	if !ValidTaskStatus(t.Status) {
		return InvalidField("status", "must be one of: pending completed")
	}
	if t.AssignedTo <= 0 {
		return InvalidField("assigned_to", "is required")
	}
	return nil
}
