package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "town", FirstNonEmpty("", "  ", "town", "country"))
	assert.Equal(t, "", FirstNonEmpty("", " "))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestLeadingSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cairo, Cairo Governorate, Egypt", "Cairo"},
		{"  Paris ,France", "Paris"},
		{"Lisbon", "Lisbon"},
		{", Nowhere", ", Nowhere"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LeadingSegment(tt.in), tt.in)
	}
}
