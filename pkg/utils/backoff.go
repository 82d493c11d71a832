package utils

import (
	"math"
	"time"
)

// Backoff computes capped exponential retry delays.
type Backoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// NewBackoff creates a doubling backoff capped at maxDelay.
func NewBackoff(baseDelay, maxDelay time.Duration) *Backoff {
	return &Backoff{BaseDelay: baseDelay, MaxDelay: maxDelay, Multiplier: 2.0}
}

// Delay returns the wait before retry number attempt (1-indexed). Attempt 0
// and below wait nothing.
func (b *Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.BaseDelay <= 0 {
		return 0
	}
	multiplier := b.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}
	delay := float64(b.BaseDelay) * math.Pow(multiplier, float64(attempt-1))
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	return time.Duration(delay)
}
