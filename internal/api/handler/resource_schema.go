package handler

import (
	"strings"
	"time"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// listResponse is the body of every list, refresh and mutation endpoint.
type listResponse[T any] struct {
	ID       int64      `json:"id,omitempty"`
	Data     []T        `json:"data"`
	Count    int        `json:"count"`
	Loading  bool       `json:"loading"`
	Error    string     `json:"error"`
	SyncedAt *time.Time `json:"synced_at"`
}

func newListResponse[T any](s ports.State[T]) listResponse[T] {
	resp := listResponse[T]{
		Data:    s.Records,
		Count:   len(s.Records),
		Loading: s.Loading,
		Error:   s.Error,
	}
	if resp.Data == nil {
		resp.Data = []T{}
	}
	if !s.SyncedAt.IsZero() {
		t := s.SyncedAt
		resp.SyncedAt = &t
	}
	return resp
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=500"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      string  `json:"status"      validate:"omitempty,oneof=pending completed"`
	DueDate     string  `json:"due_date"`
	AssignedTo  int64   `json:"assigned_to" validate:"required,gt=0"`
	CreatedBy   int64   `json:"created_by"  validate:"omitempty,gt=0"`
}

func (r createTaskRequest) toRecord() (domain.Task, error) {
	due, err := domain.ParseDueDate(r.DueDate)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		Title:       strings.TrimSpace(r.Title),
		Description: nonEmpty(r.Description),
		Status:      r.Status,
		DueDate:     due,
		Assignment:  domain.Assignment{AssignedTo: r.AssignedTo, CreatedBy: r.CreatedBy},
	}, nil
}

type updateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=500"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending completed"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *int64  `json:"assigned_to" validate:"omitempty,gt=0"`
}

func (r updateTaskRequest) fields() (map[string]any, error) {
	f := patch{}
	f.text("title", r.Title)
	f.optionalText("description", r.Description)
	f.text("status", r.Status)
	f.id("assigned_to", r.AssignedTo)
	err := f.dueDate(r.DueDate)
	return f, err
}

// --- Documents ---

type createDocumentRequest struct {
	Title      string  `json:"title"       validate:"required,max=500"`
	Content    *string `json:"content"     validate:"omitempty,max=100000"`
	Status     string  `json:"status"      validate:"omitempty,max=50"`
	DueDate    string  `json:"due_date"`
	AssignedTo int64   `json:"assigned_to" validate:"required,gt=0"`
	CreatedBy  int64   `json:"created_by"  validate:"omitempty,gt=0"`
}

func (r createDocumentRequest) toRecord() (domain.Document, error) {
	due, err := domain.ParseDueDate(r.DueDate)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		Title:      strings.TrimSpace(r.Title),
		Content:    nonEmpty(r.Content),
		Status:     r.Status,
		DueDate:    due,
		Assignment: domain.Assignment{AssignedTo: r.AssignedTo, CreatedBy: r.CreatedBy},
	}, nil
}

type updateDocumentRequest struct {
	Title      *string `json:"title"       validate:"omitempty,max=500"`
	Content    *string `json:"content"     validate:"omitempty,max=100000"`
	Status     *string `json:"status"      validate:"omitempty,max=50"`
	DueDate    *string `json:"due_date"`
	AssignedTo *int64  `json:"assigned_to" validate:"omitempty,gt=0"`
}

func (r updateDocumentRequest) fields() (map[string]any, error) {
	f := patch{}
	f.text("title", r.Title)
	f.optionalText("content", r.Content)
	f.text("status", r.Status)
	f.id("assigned_to", r.AssignedTo)
	err := f.dueDate(r.DueDate)
	return f, err
}

// --- Emails ---

type createEmailRequest struct {
	Subject    string  `json:"subject"     validate:"required,max=500"`
	Body       *string `json:"body"        validate:"omitempty,max=100000"`
	Status     string  `json:"status"      validate:"omitempty,max=50"`
	DueDate    string  `json:"due_date"`
	AssignedTo int64   `json:"assigned_to" validate:"required,gt=0"`
	CreatedBy  int64   `json:"created_by"  validate:"omitempty,gt=0"`
}

func (r createEmailRequest) toRecord() (domain.Email, error) {
	due, err := domain.ParseDueDate(r.DueDate)
	if err != nil {
		return domain.Email{}, err
	}
	return domain.Email{
		Subject:    strings.TrimSpace(r.Subject),
		Body:       nonEmpty(r.Body),
		Status:     r.Status,
		DueDate:    due,
		Assignment: domain.Assignment{AssignedTo: r.AssignedTo, CreatedBy: r.CreatedBy},
	}, nil
}

type updateEmailRequest struct {
	Subject    *string `json:"subject"     validate:"omitempty,max=500"`
	Body       *string `json:"body"        validate:"omitempty,max=100000"`
	Status     *string `json:"status"      validate:"omitempty,max=50"`
	DueDate    *string `json:"due_date"`
	AssignedTo *int64  `json:"assigned_to" validate:"omitempty,gt=0"`
}

func (r updateEmailRequest) fields() (map[string]any, error) {
	f := patch{}
	f.text("subject", r.Subject)
	f.optionalText("body", r.Body)
	f.text("status", r.Status)
	f.id("assigned_to", r.AssignedTo)
	err := f.dueDate(r.DueDate)
	return f, err
}

// patch collects the fields present in an update request.
type patch map[string]any

func (p patch) text(name string, v *string) {
	if v != nil {
		p[name] = strings.TrimSpace(*v)
	}
}

// optionalText clears the field when the value is blank.
func (p patch) optionalText(name string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		p[name] = s
		return
	}
	p[name] = nil
}

func (p patch) id(name string, v *int64) {
	if v != nil {
		p[name] = *v
	}
}

// dueDate sets due_date; a blank value clears it.
func (p patch) dueDate(v *string) error {
	if v == nil {
		return nil
	}
	due, err := domain.ParseDueDate(*v)
	if err != nil {
		return err
	}
	if due == nil {
		p["due_date"] = nil
		return nil
	}
	p["due_date"] = *due
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
