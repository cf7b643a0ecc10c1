// Package config provides environment-based configuration for the sentry daemon.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for local development.
const (
	DefaultHTTPPort        = "5007"
	DefaultSerialPort      = "/dev/cu.usbserial-2120"
	DefaultCameraID        = 0
	DefaultAudioFile       = "assets/alert-audio.mp3"
	DefaultCascadeFile     = "models/haarcascade_frontalface_default.xml"
	DefaultSmoothingFactor = 0.7
)

// Config holds everything the sentry needs at startup.
type Config struct {
	HTTPPort        string
	SerialPort      string
	CameraID        int
	AudioFile       string
	CascadeFile     string
	SmoothingFactor float64
	LogLevel        string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPPort:        getEnv("HTTP_PORT", DefaultHTTPPort),
		SerialPort:      getEnv("SERIAL_PORT", DefaultSerialPort),
		CameraID:        getEnvInt("CAMERA_ID", DefaultCameraID),
		AudioFile:       getEnv("AUDIO_FILE", DefaultAudioFile),
		CascadeFile:     getEnv("CASCADE_FILE", DefaultCascadeFile),
		SmoothingFactor: getEnvFloat("SMOOTHING_FACTOR", DefaultSmoothingFactor),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
