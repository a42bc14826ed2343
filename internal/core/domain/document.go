package domain

import (
	"strings"
	"time"
)

// Document is a contract or other paperwork tracked against a profile.
// It is persisted in the "contracts" collection.
type Document struct {
	ID         int64      `json:"id" bson:"_id" gorm:"primaryKey;autoIncrement"`
	Title      string     `json:"title" bson:"title" gorm:"not null"`
	Content    *string    `json:"content" bson:"content,omitempty"`
	DueDate    *time.Time `json:"due_date" bson:"due_date,omitempty"`
	Status     string     `json:"status" bson:"status"`
	Assignment `bson:",inline" gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" gorm:"autoCreateTime"`
}

func (Document) TableName() string { return CollectionDocuments }

func (d *Document) RecordID() int64 { return d.ID }

func (d *Document) Assign(id int64, createdAt time.Time) {
	d.ID = id
	d.CreatedAt = createdAt
}

func (d Document) SearchFields() []string { return []string{d.Title, optional(d.Content)} }

func (d Document) StatusValue() string { return d.Status }

func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return InvalidField("title", "is required")
	}
	if d.AssignedTo <= 0 {
		return InvalidField("assigned_to", "is required")
	}
	return nil
}
