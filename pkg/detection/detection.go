// Package detection provides face detection using computer vision.
package detection

import "gocv.io/x/gocv"

// Region represents a detected face bounding box in pixel coordinates.
type Region struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// CenterX returns the horizontal center of the region.
func (r Region) CenterX() int {
	return r.X + r.W/2
}

// Area returns the area of the bounding box.
func (r Region) Area() int {
	return r.W * r.H
}

// Detector is the interface for face detection backends.
type Detector interface {
	// Detect finds faces in the image and returns their bounding boxes.
	Detect(img gocv.Mat) ([]Region, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	CascadeFile  string  // Path to the Haar cascade XML
	ScaleFactor  float64 // Pyramid scale step between detection passes
	MinNeighbors int     // Minimum neighbor rectangles to retain a face
	MinSize      int     // Smallest face edge in pixels
	MaxSize      int     // Largest face edge in pixels
}

// DefaultConfig returns production defaults for frontal face detection.
func DefaultConfig() Config {
	return Config{
		CascadeFile:  "models/haarcascade_frontalface_default.xml",
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		MinSize:      60,
		MaxSize:      300,
	}
}

// SelectLargest picks the face with the largest bounding-box area.
// Returns nil if there are no detections.
func SelectLargest(regions []Region) *Region {
	if len(regions) == 0 {
		return nil
	}

	best := &regions[0]
	for i := 1; i < len(regions); i++ {
		if regions[i].Area() > best.Area() {
			best = &regions[i]
		}
	}
	return best
}
