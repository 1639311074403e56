package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Sleeper is the pacing capability. Production batches sleep for a random
// duration inside the window; tests inject NoDelay so the full algorithm
// runs instantly.
type Sleeper interface {
	Pause(ctx context.Context, min, max time.Duration)
}

type randomSleeper struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSleeper returns the production sleeper.
func NewRandomSleeper() Sleeper {
	return &randomSleeper{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *randomSleeper) Pause(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		s.mu.Lock()
		d += time.Duration(s.rng.Int63n(int64(max - min + 1)))
		s.mu.Unlock()
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// NoDelay skips all pacing.
type NoDelay struct{}

func (NoDelay) Pause(context.Context, time.Duration, time.Duration) {}
