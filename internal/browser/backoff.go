package browser

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff — экспоненциальная задержка с джиттером для повторов навигации.
type Backoff struct {
	Min        time.Duration
	Max        time.Duration
	JitterPct  int
	MaxRetries int
}

// Delay считает паузу перед попыткой attempt (attempt >= 1)
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	minMS := float64(b.Min.Milliseconds())
	maxMS := float64(b.Max.Milliseconds())

	// Экспонента: min * 2^(attempt-1)
	exponential := minMS * math.Pow(2, float64(attempt-1))
	if exponential > maxMS {
		exponential = maxMS
	}

	// Джиттер: ±jitterPct%
	jitterRange := exponential * float64(b.JitterPct) / 100
	jitter := (rand.Float64() - 0.5) * 2 * jitterRange
	finalMS := exponential + jitter

	if finalMS < minMS {
		finalMS = minMS
	}

	return time.Duration(math.Max(finalMS, 0)) * time.Millisecond
}

// Retry выполняет op до MaxRetries+1 раз. Повторяются только ошибки,
// которые не являются отменой контекста.
func (b Backoff) Retry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.Delay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}
