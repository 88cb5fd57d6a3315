package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerbosity(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"off", -4},
		{"error", -2},
		{"warn", -1},
		{"WARNING", -1},
		{"notice", 0},
		{"info", 1},
		{"debug", 2},
		{"bogus", -1},
		{"", -1},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, Verbosity(tt.level))
		})
	}
}

func TestGet(t *testing.T) {
	assert.NotNil(t, Get("parser"))
	assert.NotNil(t, Get(""))
}
