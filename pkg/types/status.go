package types

import (
	"fmt"
	"strings"
)

// Scenario statuses. A scenario progresses forward along this chain;
// deprecated is reachable from any state and planned is an explicit reset.
const (
	StatusPlanned     = "planned"
	StatusInProgress  = "in_progress"
	StatusImplemented = "implemented"
	StatusTested      = "tested"
	StatusDeployed    = "deployed"
	StatusDeprecated  = "deprecated"
)

// statusRank orders the forward chain. Deprecated sits outside the chain
// and is handled separately by CanTransition and AggregateStatus.
var statusRank = map[string]int{
	StatusPlanned:     0,
	StatusInProgress:  1,
	StatusImplemented: 2,
	StatusTested:      3,
	StatusDeployed:    4,
	StatusDeprecated:  5,
}

// statusMarkers are the display markers used by templates and list output.
var statusMarkers = map[string]string{
	StatusPlanned:     "📋",
	StatusInProgress:  "🔄",
	StatusImplemented: "⚡",
	StatusTested:      "✅",
	StatusDeployed:    "🚀",
	StatusDeprecated:  "⚠️",
}

// ValidStatus reports whether s is a recognized status value.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus normalises and validates a status string.
func ParseStatus(s string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if !ValidStatus(norm) {
		return "", fmt.Errorf("%w: %q (valid: planned, in_progress, implemented, tested, deployed, deprecated)", ErrInvalidStatus, s)
	}
	return norm, nil
}

// CanTransition reports whether a scenario may move from one status to
// another. Allowed: any forward move along the chain (skipping permitted),
// self-loops, deprecate from anywhere, and reset to planned from anywhere.
// Everything else is rejected.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if to == StatusDeprecated || to == StatusPlanned {
		return true
	}
	if from == StatusDeprecated {
		// Leaving deprecated requires an explicit reset to planned first.
		return false
	}
	return statusRank[to] >= statusRank[from]
}

// StatusMarker returns the display marker for a status, or an empty string
// for unknown values.
func StatusMarker(s string) string {
	return statusMarkers[s]
}

// StatusDisplay returns the upper-case display name for a status.
func StatusDisplay(s string) string {
	return strings.ToUpper(s)
}

// AggregateStatus derives a display status from a set of scenario statuses:
// no scenarios means planned; any deprecated scenario makes the whole set
// deprecated; all planned means planned; otherwise the lowest non-planned
// status in chain order wins.
func AggregateStatus(statuses []string) string {
	if len(statuses) == 0 {
		return StatusPlanned
	}
	lowest := ""
	allPlanned := true
	for _, s := range statuses {
		if s == StatusDeprecated {
			return StatusDeprecated
		}
		if s == StatusPlanned {
			continue
		}
		allPlanned = false
		if lowest == "" || statusRank[s] < statusRank[lowest] {
			lowest = s
		}
	}
	if allPlanned {
		return StatusPlanned
	}
	return lowest
}
