package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing.
type MockSource struct {
	frames []*gocv.Mat
	index  int
	loop   bool
	mu     sync.Mutex
	closed bool
}

// NewMockSource creates a mock frame source. When loop is true the
// sequence restarts after the last frame.
func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

// ReadFrame returns a clone of the next frame in the sequence.
func (m *MockSource) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrCameraNotOpen
	}
	if len(m.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if m.index >= len(m.frames) {
		if !m.loop {
			return nil, fmt.Errorf("no more frames")
		}
		m.index = 0
	}

	// Clone so callers can Close their copy freely
	frame := m.frames[m.index].Clone()
	m.index++

	return &frame, nil
}

// Available reports true until the source is closed.
func (m *MockSource) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Close stops the source.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
