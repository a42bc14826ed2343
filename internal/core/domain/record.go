package domain

import "time"

// Collection names shared by every store backend.
const (
	CollectionProfiles  = "profiles"
	CollectionTasks     = "tasks"
	CollectionDocuments = "contracts"
	CollectionEmails    = "emails"
)

// DefaultCreatorID is recorded as created_by when neither the caller nor the
// input names a creator.
const DefaultCreatorID int64 = 1

// Record is implemented (on the pointer) by every stored entity.
type Record interface {
	RecordID() int64
	// Assign stamps the store-assigned identity. Backends call it exactly once, on insert.
	Assign(id int64, createdAt time.Time)
}

// RecordPtr constrains a type parameter to *T implementing Record, so generic
// code can hold []T values and still reach the pointer methods.
type RecordPtr[T any] interface {
	*T
	Record
}

// Searchable exposes the fields matched by the list search box.
type Searchable interface {
	SearchFields() []string
	StatusValue() string
}

// ProfileSummary is the embedded view of a referenced profile.
type ProfileSummary struct {
	ID       int64   `json:"id"`
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
}

// Assignment carries the two profile references shared by tasks, documents
// and emails. The *Profile summaries are resolved after each fetch and never stored.
type Assignment struct {
	AssignedTo        int64           `json:"assigned_to" bson:"assigned_to" gorm:"not null;index"`
	CreatedBy         int64           `json:"created_by" bson:"created_by" gorm:"not null"`
	AssignedToProfile *ProfileSummary `json:"assigned_to_profile,omitempty" bson:"-" gorm:"-"`
	CreatedByProfile  *ProfileSummary `json:"created_by_profile,omitempty" bson:"-" gorm:"-"`
}

// AssignmentRef gives generic code access to the embedded references.
func (a *Assignment) AssignmentRef() *Assignment { return a }

// Assignable is satisfied by every entity embedding Assignment.
type Assignable interface {
	AssignmentRef() *Assignment
}

// Resolve fills the embedded summaries from a profile index. Unknown ids stay nil.
func (a *Assignment) Resolve(index map[int64]ProfileSummary) {
	a.AssignedToProfile = nil
	a.CreatedByProfile = nil
	if p, ok := index[a.AssignedTo]; ok {
		a.AssignedToProfile = &p
	}
	if p, ok := index[a.CreatedBy]; ok {
		a.CreatedByProfile = &p
	}
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
