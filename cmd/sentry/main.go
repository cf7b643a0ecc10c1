// Sentry - face-tracking servo controller with alert mode.
//
// A webcam face detector drives a servo over a serial link to an
// Arduino; alert mode loops a spin command and an audio clip until
// stopped. A REST API on HTTP_PORT is the control plane.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/e-yang6/stop-dont-go-on/internal/config"
	"github.com/e-yang6/stop-dont-go-on/internal/log"
	"github.com/e-yang6/stop-dont-go-on/pkg/actuator"
	"github.com/e-yang6/stop-dont-go-on/pkg/alertaudio"
	"github.com/e-yang6/stop-dont-go-on/pkg/camera"
	"github.com/e-yang6/stop-dont-go-on/pkg/controller"
	"github.com/e-yang6/stop-dont-go-on/pkg/detection"
	"github.com/e-yang6/stop-dont-go-on/pkg/tracking"
	"github.com/e-yang6/stop-dont-go-on/pkg/web"
)

func main() {
	cfg := config.Load()
	log.Init(cfg.LogLevel)

	// Camera: absence downgrades to demo mode, never fatal
	var source camera.Source
	cam, err := camera.Probe(cfg.CameraID)
	if err == nil {
		source = cam
	}

	// Detector: without a cascade file the locator reports no faces
	var detector detection.Detector
	detCfg := detection.DefaultConfig()
	detCfg.CascadeFile = cfg.CascadeFile
	if haar, err := detection.NewHaar(detCfg); err != nil {
		log.Warn("face detector unavailable", "error", err)
	} else {
		detector = haar
	}

	locator := tracking.NewLocator(source, detector)
	channel := actuator.Connect(cfg.SerialPort)
	audio := alertaudio.NewLooper(cfg.AudioFile)

	smoother, err := tracking.NewSmoother(cfg.SmoothingFactor)
	if err != nil {
		log.Warn("invalid SMOOTHING_FACTOR, using default",
			"value", cfg.SmoothingFactor, "error", err)
		smoother, _ = tracking.NewSmoother(config.DefaultSmoothingFactor)
	}

	ctrl := controller.New(locator, channel, audio, smoother, source != nil)
	srv := web.NewServer(cfg.HTTPPort, ctrl)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	srv.Shutdown()
	ctrl.Close()
	if detector != nil {
		detector.Close()
	}
	if source != nil {
		source.Close()
	}
	log.Info("cleanup complete")
}
