// Package controller owns the idle/tracking/alert mode state machine and
// the background loops that drive the servo and the alert audio.
//
// Each loop is a goroutine cancelled through its own context and
// confirmed dead through a done channel, so stop requests have bounded
// latency instead of fire-and-forget daemon threads. Mode flags live
// behind a mutex; the tracking loop reads the alert flag through an
// atomic so it never contends with control-plane requests.
package controller

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
	"github.com/e-yang6/stop-dont-go-on/pkg/actuator"
	"github.com/e-yang6/stop-dont-go-on/pkg/alertaudio"
	"github.com/e-yang6/stop-dont-go-on/pkg/tracking"
)

// Loop cadences and shutdown deadlines.
const (
	frameInterval     = 33 * time.Millisecond // ~30 FPS best effort
	spinInterval      = 2 * time.Second
	audioPollInterval = 100 * time.Millisecond

	stopTrackingTimeout = 2 * time.Second
	stopAlertTimeout    = 3 * time.Second

	// Forward every Nth smoothed coordinate to rate-limit serial traffic
	sendEveryNth = 2
)

// SpinCommand is the fixed token that triggers one servo spin sequence.
const SpinCommand = "SPIN"

// FaceLocator yields the horizontal center of the largest face in the
// current frame, or false when no face is visible.
type FaceLocator interface {
	Locate() (x int, ok bool)
}

// Status is a snapshot of the system state for the API.
type Status struct {
	CameraAvailable  bool    `json:"camera_available"`
	ArduinoConnected bool    `json:"arduino_connected"`
	TrackingActive   bool    `json:"tracking_active"`
	AlertMode        bool    `json:"alert_mode"`
	SmoothingFactor  float64 `json:"smoothing_factor"`
}

// Controller coordinates the tracking loop, the alert servo loop, and
// the alert audio loop.
type Controller struct {
	locator  FaceLocator
	channel  actuator.Channel
	audio    alertaudio.Player
	smoother *tracking.Smoother

	cameraAvailable bool

	// alertActive gates the tracking loop without taking mu
	alertActive atomic.Bool

	mu          sync.Mutex
	trackingOn  bool
	alertOn     bool
	trackCancel context.CancelFunc
	trackDone   chan struct{}
	alertCancel context.CancelFunc
	servoDone   chan struct{}
	audioDone   chan struct{}

	// frameCount is touched only by the tracking loop; it wraps silently
	frameCount int

	// OnModeChange, when set, receives a status snapshot after every
	// successful mode transition or settings update.
	OnModeChange func(Status)
}

// New creates a controller over the given components.
func New(locator FaceLocator, channel actuator.Channel, audio alertaudio.Player, smoother *tracking.Smoother, cameraAvailable bool) *Controller {
	return &Controller{
		locator:         locator,
		channel:         channel,
		audio:           audio,
		smoother:        smoother,
		cameraAvailable: cameraAvailable,
	}
}

// StartTracking spawns the face tracking loop. Returns false without
// side effects when the loop is already running.
func (c *Controller) StartTracking() bool {
	c.mu.Lock()
	if c.trackingOn {
		c.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.trackCancel = cancel
	c.trackDone = done
	c.trackingOn = true
	c.mu.Unlock()

	go c.trackingLoop(ctx, done)

	log.Info("face tracking started")
	c.notify()
	return true
}

// StopTracking cancels the tracking loop and waits for it to exit, up to
// a bounded timeout. Alert state is untouched. Safe when not tracking.
func (c *Controller) StopTracking() {
	c.mu.Lock()
	if !c.trackingOn {
		c.mu.Unlock()
		return
	}
	cancel := c.trackCancel
	done := c.trackDone
	c.trackingOn = false
	c.trackCancel = nil
	c.trackDone = nil
	c.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(stopTrackingTimeout):
		log.Warn("tracking loop did not confirm exit in time")
	}

	log.Info("face tracking stopped")
	c.notify()
}

// StartAlert enters alert mode: the tracking loop is suppressed, the
// servo loop spins every 2 seconds, and the alert clip plays on repeat.
// Returns false without side effects when alert mode is already active.
func (c *Controller) StartAlert() bool {
	c.mu.Lock()
	if c.alertOn {
		c.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	servoDone := make(chan struct{})
	audioDone := make(chan struct{})
	c.alertCancel = cancel
	c.servoDone = servoDone
	c.audioDone = audioDone
	c.alertOn = true
	c.alertActive.Store(true)
	c.mu.Unlock()

	go c.alertServoLoop(ctx, servoDone)
	go c.alertAudioLoop(ctx, audioDone)

	log.Info("alert mode started")
	c.notify()
	return true
}

// StopAlert exits alert mode. Both alert loops are cancelled and joined
// with a bounded timeout, and audio playback is force-stopped even if
// the audio loop has not yet observed the cancellation. Tracking, if it
// was running, resumes on its own once the alert flag clears.
func (c *Controller) StopAlert() bool {
	c.mu.Lock()
	if !c.alertOn {
		c.mu.Unlock()
		// Safety net: audio must never outlive alert mode
		c.audio.StopLoop()
		return true
	}
	cancel := c.alertCancel
	servoDone := c.servoDone
	audioDone := c.audioDone
	c.alertOn = false
	c.alertActive.Store(false)
	c.alertCancel = nil
	c.servoDone = nil
	c.audioDone = nil
	c.mu.Unlock()

	cancel()

	deadline := time.After(stopAlertTimeout)
	for _, done := range []chan struct{}{servoDone, audioDone} {
		select {
		case <-done:
		case <-deadline:
			log.Warn("alert loop did not confirm exit in time")
		}
	}

	// Unconditional force stop, independent of loop timing
	c.audio.StopLoop()

	log.Info("alert mode stopped")
	c.notify()
	return true
}

// SpinOnce sends a single spin command without changing mode state.
func (c *Controller) SpinOnce() bool {
	return c.channel.Send(SpinCommand)
}

// SetSmoothingFactor updates the tracking smoothing factor.
// Values outside [0,1] are rejected.
func (c *Controller) SetSmoothingFactor(factor float64) error {
	if err := c.smoother.SetFactor(factor); err != nil {
		return err
	}
	c.notify()
	return nil
}

// Status returns a snapshot of the current system state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		CameraAvailable:  c.cameraAvailable,
		ArduinoConnected: c.channel.Connected(),
		TrackingActive:   c.trackingOn,
		AlertMode:        c.alertOn,
		SmoothingFactor:  c.smoother.Factor(),
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	cb := c.OnModeChange
	status := c.statusLocked()
	c.mu.Unlock()

	if cb != nil {
		cb(status)
	}
}

// Close stops every loop and releases the actuator and audio handles.
func (c *Controller) Close() {
	c.StopTracking()
	c.StopAlert()
	c.audio.Close()
	c.channel.Close()
	log.Info("controller shut down")
}

// trackingLoop pulls frames at ~30 FPS, locates and smooths the face
// coordinate, and forwards every other result to the actuator. While
// alert mode is active no frames are processed and nothing is sent.
func (c *Controller) trackingLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.alertActive.Load() {
				continue
			}

			c.frameCount++

			x, ok := c.locator.Locate()
			if !ok {
				continue
			}

			smoothed := c.smoother.Smooth(x)
			if c.frameCount%sendEveryNth == 0 {
				c.channel.Send(strconv.Itoa(smoothed))
			}
		}
	}
}

// alertServoLoop sends the spin command immediately and then every
// spinInterval until cancelled.
func (c *Controller) alertServoLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()

	for {
		c.channel.Send(SpinCommand)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// alertAudioLoop starts looped playback and polls for cancellation,
// stopping playback on the way out. StopAlert force-stops playback as
// well, so a slow exit here cannot leave audio running.
func (c *Controller) alertAudioLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if err := c.audio.StartLoop(); err != nil {
		log.Error("alert audio failed to start", "error", err)
		return
	}

	ticker := time.NewTicker(audioPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.audio.StopLoop()
			return
		case <-ticker.C:
		}
	}
}
