//go:build unit
// +build unit

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			reply: `{"intent":"appointment_request"}`,
			want:  `{"intent":"appointment_request"}`,
		},
		{
			name:  "json fence",
			reply: "Here you go:\n```json\n{\"intent\": \"emergency\"}\n```\nLet me know.",
			want:  `{"intent": "emergency"}`,
		},
		{
			name:  "plain fence",
			reply: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding prose",
			reply: `Sure. {"confidence": 0.9} Hope that helps!`,
			want:  `{"confidence": 0.9}`,
		},
		{
			name:    "no object",
			reply:   "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "empty reply",
			reply:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
