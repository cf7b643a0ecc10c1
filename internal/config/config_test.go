package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != DefaultHTTPPort {
		t.Errorf("HTTPPort: got %q, want %q", cfg.HTTPPort, DefaultHTTPPort)
	}
	if cfg.SmoothingFactor != DefaultSmoothingFactor {
		t.Errorf("SmoothingFactor: got %v, want %v", cfg.SmoothingFactor, DefaultSmoothingFactor)
	}
	if cfg.CameraID != DefaultCameraID {
		t.Errorf("CameraID: got %d, want %d", cfg.CameraID, DefaultCameraID)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CAMERA_ID", "2")
	t.Setenv("SMOOTHING_FACTOR", "0.4")

	cfg := Load()

	if cfg.HTTPPort != "9000" {
		t.Errorf("HTTPPort: got %q, want 9000", cfg.HTTPPort)
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID: got %d, want 2", cfg.CameraID)
	}
	if cfg.SmoothingFactor != 0.4 {
		t.Errorf("SmoothingFactor: got %v, want 0.4", cfg.SmoothingFactor)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("CAMERA_ID", "not-a-number")
	t.Setenv("SMOOTHING_FACTOR", "nope")

	cfg := Load()

	if cfg.CameraID != DefaultCameraID {
		t.Errorf("CameraID: got %d, want default %d", cfg.CameraID, DefaultCameraID)
	}
	if cfg.SmoothingFactor != DefaultSmoothingFactor {
		t.Errorf("SmoothingFactor: got %v, want default %v", cfg.SmoothingFactor, DefaultSmoothingFactor)
	}
}
