package domain

import (
	"strings"
	"time"
)

// Email is an outgoing message that someone has to write or answer.
type Email struct {
	ID         int64      `json:"id" bson:"_id" gorm:"primaryKey;autoIncrement"`
	Subject    string     `json:"subject" bson:"subject" gorm:"not null"`
	Body       *string    `json:"body" bson:"body,omitempty"`
	Status     string     `json:"status" bson:"status" gorm:"not null;default:pending"`
	DueDate    *time.Time `json:"due_date" bson:"due_date,omitempty"`
	Assignment `bson:",inline" gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" gorm:"autoCreateTime"`
}

func (Email) TableName() string { return CollectionEmails }

func (e *Email) RecordID() int64 { return e.ID }

func (e *Email) Assign(id int64, createdAt time.Time) {
	e.ID = id
	e.CreatedAt = createdAt
}

func (e Email) SearchFields() []string { return []string{e.Subject, optional(e.Body)} }

func (e Email) StatusValue() string { return e.Status }

func (e *Email) Validate() error {
	if strings.TrimSpace(e.Subject) == "" {
		return InvalidField("subject", "is required")
	}
	if e.AssignedTo <= 0 {
		return InvalidField("assigned_to", "is required")
	}
	return nil
}
