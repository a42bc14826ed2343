package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Profile models a person that tasks, documents and emails are assigned to.
type Profile struct {
	ID           int64     `json:"id" bson:"_id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" bson:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" bson:"password" gorm:"column:password;not null"`
	FullName     *string   `json:"full_name" bson:"full_name,omitempty"`
	Role         *string   `json:"role" bson:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" gorm:"autoCreateTime"`
}

func (Profile) TableName() string { return CollectionProfiles }

func (p *Profile) RecordID() int64 { return p.ID }

func (p *Profile) Assign(id int64, createdAt time.Time) {
	p.ID = id
	p.CreatedAt = createdAt
}

// DisplayName is the full name when set, otherwise the email.
func (p Profile) DisplayName() string {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		return *p.FullName
	}
	return p.Email
}

func (p Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, FullName: p.FullName, Email: p.Email}
}

func (p Profile) SearchFields() []string { return []string{optional(p.FullName), p.Email} }

func (p Profile) StatusValue() string { return "" }

// Validate checks the fields required on registration.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return InvalidField("email", "is required")
	}
	if p.PasswordHash == "" {
		return InvalidField("password", "is required")
	}
	return nil
}

// ProfileIndex maps profile ids to their summaries.
func ProfileIndex(profiles []Profile) map[int64]ProfileSummary {
	idx := make(map[int64]ProfileSummary, len(profiles))
	for _, p := range profiles {
		idx[p.ID] = p.Summary()
	}
	return idx
}
