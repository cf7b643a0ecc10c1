// Package camera provides webcam capture using GoCV (OpenCV).
package camera

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
)

// Capture settings applied to every probed device.
const (
	FrameWidth  = 640
	FrameHeight = 480
	FrameRate   = 30
)

// ErrNoCamera is returned when no capture device could be opened.
var ErrNoCamera = errors.New("no camera available")

// ErrCameraNotOpen is returned when reading from a closed camera.
var ErrCameraNotOpen = errors.New("camera is not open")

// Source is the interface for frame producers.
type Source interface {
	// ReadFrame reads a single frame. The caller owns the returned Mat
	// and must Close it.
	ReadFrame() (*gocv.Mat, error)

	// Available reports whether a real device is behind this source.
	Available() bool

	// Close releases the device.
	Close() error
}

// Camera wraps a gocv VideoCapture device.
type Camera struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
}

// Probe tries the preferred device ID first, then IDs 0..2, and returns
// the first camera that both opens and delivers a readable frame.
// Returns ErrNoCamera when every candidate fails; the caller is expected
// to continue in demo mode.
func Probe(preferred int) (*Camera, error) {
	ids := []int{preferred}
	for _, id := range []int{0, 1, 2} {
		if id != preferred {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		cam, err := open(id)
		if err != nil {
			log.Warn("camera unavailable", "device", id, "error", err)
			continue
		}
		log.Info("camera initialized", "device", id,
			"width", FrameWidth, "height", FrameHeight)
		return cam, nil
	}

	log.Warn("no camera found, continuing in demo mode")
	return nil, ErrNoCamera
}

func open(deviceID int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, FrameWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, FrameHeight)
	capture.Set(gocv.VideoCaptureFPS, FrameRate)
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	cam := &Camera{deviceID: deviceID, capture: capture}

	// A device can open but still refuse frames when another process
	// holds it. Verify before accepting.
	for attempt := 0; attempt < 3; attempt++ {
		frame, err := cam.ReadFrame()
		if err == nil {
			frame.Close()
			return cam, nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	capture.Close()
	return nil, errors.New("device opened but delivers no frames")
}

// ReadFrame reads a single frame from the camera.
func (c *Camera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// Available reports whether the device is open.
func (c *Camera) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}

// Close releases the capture device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
