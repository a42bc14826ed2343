package domain

import (
	"strings"
	"time"
)

// DueDateLayout is the minute-precision form produced by datetime-local inputs.
const DueDateLayout = "2006-01-02T15:04"

// ParseDueDate accepts DueDateLayout (read as UTC) or RFC3339. An empty
// string yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, DueDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, InvalidField("due_date", "must be YYYY-MM-DDTHH:MM or RFC3339")
}
