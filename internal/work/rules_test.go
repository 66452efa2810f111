package work

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 8.0, p.StandardShiftHours)
	assert.True(t, p.ZeroDurationIsFullDay)
	assert.Zero(t, p.MaxNetHours)
	assert.Equal(t, DefaultDateLayouts, p.DateLayouts)

	// Callers may change their copy without touching the package default.
	p.DateLayouts[0] = "2006"
	assert.Equal(t, "02/01/2006", DefaultDateLayouts[0])
}

func TestPolicyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		standard float64
		layouts  int
	}{
		{"zero value", Policy{}, DefaultStandardShiftHours, len(DefaultDateLayouts)},
		{"negative shift", Policy{StandardShiftHours: -1}, DefaultStandardShiftHours, len(DefaultDateLayouts)},
		{"custom", Policy{StandardShiftHours: 7.5, DateLayouts: []string{"2006-01-02"}}, 7.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.standard, tt.policy.EffectiveShiftHours())
			assert.Len(t, tt.policy.dateLayouts(), tt.layouts)
		})
	}
}
