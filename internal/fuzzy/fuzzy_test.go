package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	categories := []string{"authentication", "payments", "billing", "reporting"}

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"single transposition", "authenitcation", "authentication", true},
		{"missing letter", "bling", "billing", true},
		{"case insensitive", "PAYMENTS", "payments", true},
		{"exact match", "reporting", "reporting", true},
		{"too far off", "xylophone", "", false},
		{"empty input", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Closest(tt.input, categories)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClosestNoCandidates(t *testing.T) {
	_, ok := Closest("anything", nil)
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, distance("same", "same"))
	assert.Equal(t, 1, distance("cat", "cut"))
	assert.Equal(t, 3, distance("", "abc"))
	assert.Equal(t, 3, distance("kitten", "sitting"))
}
