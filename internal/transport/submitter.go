package transport

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hotel-pms/internal/models"
)

// Submitter pushes a queued reservation to the channel manager. The real
// OTA aggregation API is not available in this deployment, so the default
// implementation simulates it; tests inject their own.
type Submitter interface {
	Submit(ctx context.Context, res *models.OfflineReservation) error
}

// SimulatedChannel stands in for the channel-manager API. Each submit waits
// a random delay within [minDelay, maxDelay] and fails at the configured rate.
type SimulatedChannel struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedChannel(minDelay, maxDelay time.Duration, failureRate float64) *SimulatedChannel {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &SimulatedChannel{
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimulatedChannel) Submit(ctx context.Context, res *models.OfflineReservation) error {
	s.mu.Lock()
	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}
	fail := s.rng.Float64() < s.failureRate
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}

	if fail {
		return fmt.Errorf("channel manager rejected reservation %s", res.ConfirmationCode)
	}
	return nil
}
