// Package parsex holds small lenient-parsing helpers for values coming from
// user input, where a bad value means "use the default" rather than an error.
package parsex

import (
	"strconv"
	"strings"
)

// IntOrDefault parses s as a base-10 integer and returns def when s is empty
// or not a number.
func IntOrDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// IntPtr parses s as a base-10 integer and returns nil when s is empty or not
// a number. Used for optional numeric fields such as menu prices.
func IntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
