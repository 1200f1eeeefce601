// Package filter derives the displayed view from the mirror. It is pure and
// recomputed in full on every mirror or criteria change; no incremental
// diffing.
package filter

import (
	"strings"

	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// Criteria is the last-applied search state. Empty fields disable their
// predicate.
type Criteria struct {
	Prefecture   string
	CityContains string
}

// IsZero reports whether no predicate is active.
func (c Criteria) IsZero() bool {
	return c.Prefecture == "" && strings.TrimSpace(c.CityContains) == ""
}

// Apply returns the ordered sub-sequence of records matching the criteria:
// exact prefecture match AND case-insensitive city substring. Input order is
// preserved.
func Apply(records []models.Record, c Criteria) []models.Record {
	city := strings.ToLower(strings.TrimSpace(c.CityContains))

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if c.Prefecture != "" && r.Prefecture != c.Prefecture {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(r.City), city) {
			continue
		}
		out = append(out, r)
	}
	return out
}
