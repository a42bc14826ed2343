package service

import (
	"fmt"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/core/ports"
)

// Kind parameterises a Controller for one entity type.
type Kind[T any] struct {
	Name          string
	Order         ports.Order
	Defaults      func(*T)
	Validate      func(*T) error
	ValidatePatch func(map[string]any) error
}

var newestFirst = ports.Order{Field: "created_at", Desc: true}

func TaskKind() Kind[domain.Task] {
	return Kind[domain.Task]{
		Name:  "task",
		Order: newestFirst,
		Defaults: func(t *domain.Task) {
			if t.Status == "" {
				t.Status = domain.StatusPending
			}
		},
		Validate: (*domain.Task).Validate,
		ValidatePatch: func(fields map[string]any) error {
			if v, ok := fields["status"]; ok {
				s, _ := v.(string)
				if !domain.ValidTaskStatus(s) {
					return domain.InvalidField("status", "must be one of: pending completed")
				}
			}
			return requireText(fields, "title")
		},
	}
}

func DocumentKind() Kind[domain.Document] {
	return Kind[domain.Document]{
		Name:     "document",
		Order:    newestFirst,
		Validate: (*domain.Document).Validate,
		ValidatePatch: func(fields map[string]any) error {
			return requireText(fields, "title")
		},
	}
}

func EmailKind() Kind[domain.Email] {
	return Kind[domain.Email]{
		Name:  "email",
		Order: newestFirst,
		Defaults: func(e *domain.Email) {
			if e.Status == "" {
				e.Status = domain.StatusPending
			}
		},
		Validate: (*domain.Email).Validate,
		ValidatePatch: func(fields map[string]any) error {
			return requireText(fields, "subject")
		},
	}
}

// ProfileKind lists profiles alphabetically by display name.
func ProfileKind() Kind[domain.Profile] {
	return Kind[domain.Profile]{
		Name:     "profile",
		Order:    ports.Order{Field: "full_name"},
		Validate: (*domain.Profile).Validate,
	}
}

// requireText rejects a patch that blanks out a required text field.
func requireText(fields map[string]any, name string) error {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	if s, _ := v.(string); s == "" {
		return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidRecord, name)
	}
	return nil
}
