//go:build unit
// +build unit

package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "email address",
			input:    "reach me at jane.doe@example.com please",
			expected: "reach me at [email] please",
		},
		{
			name:     "phone number",
			input:    "call 555-123-4567 tomorrow",
			expected: "call [phone] tomorrow",
		},
		{
			name:     "ssn",
			input:    "ssn is 123-45-6789",
			expected: "ssn is [ssn]",
		},
		{
			name:     "date of birth",
			input:    "born 1984-07-12",
			expected: "born [date]",
		},
		{
			name:     "clean text untouched",
			input:    "I would like to book a cleaning next week",
			expected: "I would like to book a cleaning next week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskText(tt.input))
		})
	}
}
