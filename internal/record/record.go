package record

import "strings"

// Record is a single todo item as served by the remote endpoint.
type Record struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Filter returns the records whose title contains query, ignoring case.
// An empty query returns records unchanged. Order is preserved and the
// input slice is never modified.
func Filter(records []Record, query string) []Record {
	if query == "" {
		return records
	}

	needle := strings.ToLower(query)
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Counts returns how many records are completed and how many are not.
func Counts(records []Record) (done, pending int) {
	for _, r := range records {
		if r.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
