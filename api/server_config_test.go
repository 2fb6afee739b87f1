package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoverRequestBudget(t *testing.T) {
	tests := []struct {
		name   string
		write  time.Duration
		budget time.Duration
		want   time.Duration
	}{
		{"raised for long chain timeout", 3 * time.Minute, 4 * time.Minute, 4*time.Minute + 30*time.Second},
		{"kept when already enough", 10 * time.Minute, 2 * time.Minute, 10 * time.Minute},
		{"raised from zero", 0, time.Minute, 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &HTTPServerConfig{WriteTimeout: tt.write}
			cfg.CoverRequestBudget(tt.budget)
			assert.Equal(t, tt.want, cfg.WriteTimeout)
		})
	}
}
