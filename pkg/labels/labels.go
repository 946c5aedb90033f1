// pkg/labels/labels.go

// Package labels implements the pull-request label predicate used to decide
// whether auto-commit is suppressed.
package labels

import (
	"os"
	"strings"
)

// Parse splits a comma-separated label list, trimming whitespace and
// dropping empty elements.
func Parse(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(list, ",") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Has reports whether target appears as an exact element of the
// comma-separated list. An empty list never matches.
func Has(list, target string) bool {
	if target == "" {
		return false
	}
	for _, l := range Parse(list) {
		if l == target {
			return true
		}
	}
	return false
}

// FromEnv reads the comma-separated label list from the named environment
// variable. An unset variable behaves as the empty list.
func FromEnv(envVar string) string {
	return os.Getenv(envVar)
}

// HasFromEnv is Has applied to the list held in the named environment
// variable.
func HasFromEnv(envVar, target string) bool {
	return Has(FromEnv(envVar), target)
}
