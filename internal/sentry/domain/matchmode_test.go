package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchMode_String(t *testing.T) {
	assert.Equal(t, "exact", MatchExact.String())
	assert.Equal(t, "domain", MatchDomain.String())
	assert.Equal(t, "MatchMode(9)", MatchMode(9).String())
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		input   string
		want    MatchMode
		wantErr bool
	}{
		{"exact", MatchExact, false},
		{"domain", MatchDomain, false},
		{"  Domain ", MatchDomain, false},
		{"EXACT", MatchExact, false},
		{"fuzzy", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMatchMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
