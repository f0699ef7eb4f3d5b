package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolog/logagent/internal/models"
)

func TestParseSolutions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []models.Solution
	}{
		{
			name: "json fence",
			raw:  "Here you go:\n```json\n[{\"rootCause\": \"pool\"}]\n```\nthanks",
			want: []models.Solution{{"rootCause": "pool"}},
		},
		{
			name: "plain fence",
			raw:  "```\n[{\"a\": 1}, {\"b\": 2}]\n```",
			want: []models.Solution{{"a": float64(1)}, {"b": float64(2)}},
		},
		{
			name: "bare array",
			raw:  `[{"confidence": 9}]`,
			want: []models.Solution{{"confidence": float64(9)}},
		},
		{
			name: "object is wrapped",
			raw:  `{"rootCause": "disk"}`,
			want: []models.Solution{{"rootCause": "disk"}},
		},
		{
			name: "non-object array items",
			raw:  `["restart the service"]`,
			want: []models.Solution{{"analysis": "restart the service"}},
		},
		{
			name: "free text falls back",
			raw:  "The database is down.",
			want: []models.Solution{{"analysis": "The database is down."}},
		},
		{
			name: "scalar falls back",
			raw:  "42",
			want: []models.Solution{{"analysis": "42"}},
		},
		{
			name: "broken json in fence keeps full raw text",
			raw:  "```json\n[{oops}]\n```",
			want: []models.Solution{{"analysis": "```json\n[{oops}]\n```"}},
		},
		{
			name: "empty",
			raw:  "",
			want: []models.Solution{{"analysis": ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSolutions(tt.raw)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
