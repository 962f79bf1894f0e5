package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "forward one step", from: StatusPlanned, to: StatusInProgress, want: true},
		{name: "forward skip", from: StatusPlanned, to: StatusDeployed, want: true},
		{name: "self loop", from: StatusTested, to: StatusTested, want: true},
		{name: "deprecate from planned", from: StatusPlanned, to: StatusDeprecated, want: true},
		{name: "deprecate from deployed", from: StatusDeployed, to: StatusDeprecated, want: true},
		{name: "reset to planned", from: StatusDeployed, to: StatusPlanned, want: true},
		{name: "reset from deprecated", from: StatusDeprecated, to: StatusPlanned, want: true},
		{name: "backward rejected", from: StatusTested, to: StatusInProgress, want: false},
		{name: "backward from implemented", from: StatusImplemented, to: StatusInProgress, want: false},
		{name: "forward from deprecated rejected", from: StatusDeprecated, to: StatusInProgress, want: false},
		{name: "unknown from", from: "bogus", to: StatusPlanned, want: false},
		{name: "unknown to", from: StatusPlanned, to: "bogus", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("  In_Progress ")
	assert.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{name: "no scenarios", statuses: nil, want: StatusPlanned},
		{name: "all planned", statuses: []string{StatusPlanned, StatusPlanned}, want: StatusPlanned},
		{name: "deprecated absorbs", statuses: []string{StatusDeployed, StatusDeprecated}, want: StatusDeprecated},
		{name: "lowest non-planned wins", statuses: []string{StatusTested, StatusInProgress, StatusPlanned}, want: StatusInProgress},
		{name: "single implemented", statuses: []string{StatusImplemented}, want: StatusImplemented},
		{name: "planned ignored when others present", statuses: []string{StatusPlanned, StatusDeployed}, want: StatusDeployed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(tt.statuses))
		})
	}
}
