package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain digits", "4105551234", "(410) 555-1234"},
		{"already formatted", "(410) 555-1234", "(410) 555-1234"},
		{"dashed", "410-555-1234", "(410) 555-1234"},
		{"with country code", "+1 410 555 1234", "(410) 555-1234"},
		{"too short left alone", "55512", "55512"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"non numeric left alone", "ext. 12", "ext. 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPhoneNumber(tt.input))
		})
	}
}
