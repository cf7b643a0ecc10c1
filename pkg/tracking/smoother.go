// Package tracking turns camera frames into smoothed servo coordinates.
package tracking

import (
	"fmt"
	"math"
	"sync"
)

// Smoother applies an exponential moving average to successive face
// x-coordinates to reduce servo jitter. The factor weights the previous
// value: higher values mean heavier smoothing.
type Smoother struct {
	mu     sync.Mutex
	factor float64
	last   int
	primed bool
}

// NewSmoother creates a smoother with the given factor.
// Factors outside [0,1] are rejected.
func NewSmoother(factor float64) (*Smoother, error) {
	s := &Smoother{}
	if err := s.SetFactor(factor); err != nil {
		return nil, err
	}
	return s, nil
}

// Smooth blends the new coordinate with the previous output.
// The first call returns newX unchanged and primes the filter.
func (s *Smoother) Smooth(newX int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		s.last = newX
		s.primed = true
		return newX
	}

	smoothed := int(math.Round(s.factor*float64(s.last) + (1-s.factor)*float64(newX)))
	s.last = smoothed
	return smoothed
}

// SetFactor updates the smoothing factor. Values outside [0,1] are
// rejected with a validation error.
func (s *Smoother) SetFactor(factor float64) error {
	if factor < 0 || factor > 1 {
		return fmt.Errorf("smoothing factor must be between 0.0 and 1.0, got %v", factor)
	}

	s.mu.Lock()
	s.factor = factor
	s.mu.Unlock()
	return nil
}

// Factor returns the current smoothing factor.
func (s *Smoother) Factor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factor
}

// Reset clears the retained state so the next Smooth call primes again.
func (s *Smoother) Reset() {
	s.mu.Lock()
	s.primed = false
	s.mu.Unlock()
}
