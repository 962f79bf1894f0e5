package types

import (
	"fmt"
	"strings"
)

// Use case priorities, totally ordered low < medium < high < critical.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var priorityRank = map[string]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// ValidPriority reports whether p is a recognized priority value.
func ValidPriority(p string) bool {
	_, ok := priorityRank[p]
	return ok
}

// ParsePriority normalises and validates a priority string.
func ParsePriority(p string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(p))
	if !ValidPriority(norm) {
		return "", fmt.Errorf("%w: %q (valid: low, medium, high, critical)", ErrInvalidPriority, p)
	}
	return norm, nil
}

// ComparePriority returns a negative, zero, or positive number as a sorts
// before, equal to, or after b in priority order.
func ComparePriority(a, b string) int {
	return priorityRank[a] - priorityRank[b]
}

// PriorityDisplay returns the upper-case display name for a priority.
func PriorityDisplay(p string) string {
	return strings.ToUpper(p)
}
