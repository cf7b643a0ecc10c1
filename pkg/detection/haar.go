package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// HaarDetector uses OpenCV's CascadeClassifier for frontal face detection.
type HaarDetector struct {
	classifier gocv.CascadeClassifier
	config     Config
	mu         sync.Mutex // Protects inference
}

// NewHaar creates a Haar cascade face detector from the given config.
func NewHaar(cfg Config) (*HaarDetector, error) {
	if _, err := os.Stat(cfg.CascadeFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cfg.CascadeFile)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadeFile) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade: %s", cfg.CascadeFile)
	}

	return &HaarDetector{
		classifier: classifier,
		config:     cfg,
	}, nil
}

// Detect finds faces in the BGR image.
func (d *HaarDetector) Detect(img gocv.Mat) ([]Region, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rects := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.config.ScaleFactor,
		d.config.MinNeighbors,
		0,
		image.Pt(d.config.MinSize, d.config.MinSize),
		image.Pt(d.config.MaxSize, d.config.MaxSize),
	)

	regions := make([]Region, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, Region{
			X: r.Min.X,
			Y: r.Min.Y,
			W: r.Dx(),
			H: r.Dy(),
		})
	}

	return regions, nil
}

// Close releases the classifier resources.
func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
