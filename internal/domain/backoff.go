package domain

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy computes the wait before a retry attempt.
type BackoffPolicy struct {
	Initial    time.Duration
	Multiplier float64
	// Max caps the computed delay; zero means uncapped.
	Max    time.Duration
	Jitter bool
}

// ReconnectBackoff doubles from two seconds per attempt. The cap keeps the
// wait bounded if the attempt limit is ever raised.
func ReconnectBackoff() BackoffPolicy {
	return BackoffPolicy{Initial: 2 * time.Second, Multiplier: 2, Max: 60 * time.Second}
}

// SendRetryBackoff spaces retries of a single send: 1s, 2s, 4s, capped at 10s.
func SendRetryBackoff() BackoffPolicy {
	return BackoffPolicy{Initial: time.Second, Multiplier: 2, Max: 10 * time.Second}
}

// Delay returns the wait before attempt N (1-based). With Jitter set, the
// delay is scaled by a factor in [0.5, 1.5) drawn from rng.
func (p BackoffPolicy) Delay(attempt int, rng *rand.Rand) time.Duration {
	if p.Initial <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	mult := p.Multiplier
	if mult < 1.0 {
		mult = 1.0
	}
	delay := float64(p.Initial) * math.Pow(mult, float64(attempt-1))
	if p.Max > 0 && delay > float64(p.Max) {
		delay = float64(p.Max)
	}
	if p.Jitter && rng != nil {
		delay = delay * (0.5 + rng.Float64())
	}
	return time.Duration(delay)
}
