package alertaudio

import "sync"

// MockPlayer records loop transitions for testing.
type MockPlayer struct {
	mu         sync.Mutex
	playing    bool
	startCalls int
	stopCalls  int
}

// StartLoop marks playback as active.
func (m *MockPlayer) StartLoop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
	m.playing = true
	return nil
}

// StopLoop marks playback as stopped.
func (m *MockPlayer) StopLoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.playing = false
}

// Playing reports the recorded state.
func (m *MockPlayer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Close is a no-op.
func (m *MockPlayer) Close() error {
	return nil
}

// StartCalls returns how many times StartLoop ran.
func (m *MockPlayer) StartCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

// StopCalls returns how many times StopLoop ran.
func (m *MockPlayer) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}
