package domain

import "strings"

// FilterRecords returns the records whose searchable fields contain search as
// a case-insensitive substring and, when status is non-empty, whose status
// equals it exactly. Input order is preserved; the input slice is not modified.
func FilterRecords[T Searchable](records []T, search, status string) []T {
	needle := strings.ToLower(search)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if status != "" && r.StatusValue() != status {
			continue
		}
		if needle != "" && !matches(r.SearchFields(), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
