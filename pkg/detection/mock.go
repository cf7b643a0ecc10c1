package detection

import "gocv.io/x/gocv"

// MockDetector returns scripted detections for testing.
type MockDetector struct {
	// Regions returned by each successive Detect call. When exhausted,
	// Detect keeps returning the last entry.
	Results [][]Region

	// Err is returned by every Detect call when set.
	Err error

	calls int
}

// Detect returns the next scripted result.
func (m *MockDetector) Detect(_ gocv.Mat) ([]Region, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Results) == 0 {
		return nil, nil
	}

	i := m.calls
	if i >= len(m.Results) {
		i = len(m.Results) - 1
	}
	m.calls++
	return m.Results[i], nil
}

// Close is a no-op.
func (m *MockDetector) Close() error {
	return nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}
