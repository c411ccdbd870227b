package main

import (
	"testing"
	"time"
)

func TestComputeDelay(t *testing.T) {
	tests := []struct {
		name      string
		attempt   int
		base      time.Duration
		jitterPct float64
		validate  func(t *testing.T, result time.Duration)
	}{
		{
			name:      "first attempt",
			attempt:   1,
			base:      time.Second,
			jitterPct: 0.0,
			validate: func(t *testing.T, result time.Duration) {
				if result != time.Second {
					t.Errorf("Expected delay %v, got %v", time.Second, result)
				}
			},
		},
		{
			name:      "third attempt doubles twice",
			attempt:   3,
			base:      time.Second,
			jitterPct: 0.0,
			validate: func(t *testing.T, result time.Duration) {
				if result != 4*time.Second {
					t.Errorf("Expected delay %v, got %v", 4*time.Second, result)
				}
			},
		},
		{
			name:      "zero attempt treated as first",
			attempt:   0,
			base:      time.Second,
			jitterPct: 0.0,
			validate: func(t *testing.T, result time.Duration) {
				if result != time.Second {
					t.Errorf("Expected delay %v, got %v", time.Second, result)
				}
			},
		},
		{
			name:      "negative attempt treated as first",
			attempt:   -1,
			base:      time.Second,
			jitterPct: 0.0,
			validate: func(t *testing.T, result time.Duration) {
				if result != time.Second {
					t.Errorf("Expected delay %v, got %v", time.Second, result)
				}
			},
		},
		{
			name:      "with jitter stays within bounds",
			attempt:   2,
			base:      time.Second,
			jitterPct: 0.5,
			validate: func(t *testing.T, result time.Duration) {
				base := 2 * time.Second
				minExpected := time.Duration(float64(base) * 0.5)
				maxExpected := time.Duration(float64(base) * 1.5)
				if result < minExpected || result > maxExpected {
					t.Errorf("Expected delay between %v and %v, got %v", minExpected, maxExpected, result)
				}
			},
		},
		{
			name:      "excessive jitter floored",
			attempt:   1,
			base:      time.Second,
			jitterPct: 2.0,
			validate: func(t *testing.T, result time.Duration) {
				minExpected := time.Duration(float64(time.Second) * 0.1)
				if result < minExpected {
					t.Errorf("Expected delay at least %v, got %v", minExpected, result)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := computeDelay(tt.attempt, tt.base, tt.jitterPct)
			tt.validate(t, result)
		})
	}
}
