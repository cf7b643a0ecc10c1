package tracking

import (
	"gocv.io/x/gocv"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
	"github.com/e-yang6/stop-dont-go-on/pkg/camera"
	"github.com/e-yang6/stop-dont-go-on/pkg/detection"
)

// Locator pulls a frame from the camera and finds the horizontal center
// of the largest detected face.
type Locator struct {
	source   camera.Source
	detector detection.Detector
}

// NewLocator creates a locator over the given frame source and detector.
// Either may be nil, in which case Locate always reports no face.
func NewLocator(source camera.Source, detector detection.Detector) *Locator {
	return &Locator{
		source:   source,
		detector: detector,
	}
}

// Locate captures a frame, mirrors it, and returns the x-coordinate of
// the horizontal center of the largest face, or false if none was found.
func (l *Locator) Locate() (int, bool) {
	if l.source == nil || l.detector == nil {
		return 0, false
	}

	frame, err := l.source.ReadFrame()
	if err != nil {
		return 0, false
	}
	defer frame.Close()

	// Mirror so the servo follows the user's perspective
	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)

	regions, err := l.detector.Detect(mirrored)
	if err != nil {
		log.Warn("face detection failed", "error", err)
		return 0, false
	}

	best := detection.SelectLargest(regions)
	if best == nil {
		return 0, false
	}

	return best.CenterX(), true
}
