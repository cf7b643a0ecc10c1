package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/e-yang6/stop-dont-go-on/pkg/actuator"
	"github.com/e-yang6/stop-dont-go-on/pkg/alertaudio"
	"github.com/e-yang6/stop-dont-go-on/pkg/controller"
	"github.com/e-yang6/stop-dont-go-on/pkg/tracking"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	smoother, err := tracking.NewSmoother(0.7)
	if err != nil {
		t.Fatalf("NewSmoother: %v", err)
	}

	// No camera or detector: locator always reports no face
	locator := tracking.NewLocator(nil, nil)

	ctrl := controller.New(locator, actuator.NewDemo(), &alertaudio.MockPlayer{}, smoother, false)
	t.Cleanup(ctrl.Close)

	return NewServer("0", ctrl)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var decoded map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%s %s: bad JSON %q: %v", method, path, data, err)
		}
	}
	return resp, decoded
}

func TestHome_ListsEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "GET", "/", "")
	if resp.StatusCode != 200 {
		t.Fatalf("Status: got %d, want 200", resp.StatusCode)
	}

	eps, ok := body["endpoints"].([]interface{})
	if !ok || len(eps) == 0 {
		t.Fatalf("Expected endpoint list, got %v", body["endpoints"])
	}
}

func TestStatus_Fields(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "GET", "/api/status", "")
	if resp.StatusCode != 200 {
		t.Fatalf("Status: got %d, want 200", resp.StatusCode)
	}

	for _, key := range []string{
		"camera_available", "arduino_connected",
		"tracking_active", "alert_mode", "smoothing_factor",
	} {
		if _, ok := body[key]; !ok {
			t.Errorf("Status missing field %q", key)
		}
	}
	if body["smoothing_factor"] != 0.7 {
		t.Errorf("smoothing_factor: got %v, want 0.7", body["smoothing_factor"])
	}
}

func TestStartTracking_SecondCallFails(t *testing.T) {
	s := newTestServer(t)

	_, body := doJSON(t, s, "POST", "/api/start_tracking", "")
	if body["success"] != true {
		t.Errorf("First start: got %v, want success=true", body)
	}

	_, body = doJSON(t, s, "POST", "/api/start_tracking", "")
	if body["success"] != false {
		t.Errorf("Second start: got %v, want success=false", body)
	}

	doJSON(t, s, "POST", "/api/stop_tracking", "")
}

func TestSettings_Accepted(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "POST", "/api/settings", `{"smoothing_factor": 0.5}`)
	if resp.StatusCode != 200 {
		t.Fatalf("Status: got %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("Expected success=true, got %v", body)
	}
	if body["smoothing_factor"] != 0.5 {
		t.Errorf("Expected smoothing_factor echoed as 0.5, got %v", body["smoothing_factor"])
	}
}

func TestSettings_OutOfRangeRejected(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "POST", "/api/settings", `{"smoothing_factor": 1.5}`)
	if resp.StatusCode != 400 {
		t.Fatalf("Status: got %d, want 400", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Error("Expected an error message")
	}

	// Factor unchanged
	_, status := doJSON(t, s, "GET", "/api/status", "")
	if status["smoothing_factor"] != 0.7 {
		t.Errorf("Factor should be unchanged, got %v", status["smoothing_factor"])
	}
}

func TestSettings_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "POST", "/api/settings", `{"smoothing_factor": `)
	if resp.StatusCode != 500 {
		t.Fatalf("Status: got %d, want 500", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Error("Expected the parse error text")
	}
}

func TestSpinOnce_NoStateChange(t *testing.T) {
	s := newTestServer(t)

	_, body := doJSON(t, s, "POST", "/api/spin_once", "")
	if body["success"] != true {
		t.Errorf("Expected success=true (demo channel), got %v", body)
	}

	_, status := doJSON(t, s, "GET", "/api/status", "")
	if status["tracking_active"] != false || status["alert_mode"] != false {
		t.Errorf("SpinOnce must not change modes: %v", status)
	}
}

func TestAlertScenario(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, "POST", "/api/start_tracking", "")

	_, status := doJSON(t, s, "GET", "/api/status", "")
	if status["tracking_active"] != true || status["alert_mode"] != false {
		t.Fatalf("After start_tracking: %v", status)
	}

	doJSON(t, s, "POST", "/api/start_alert", "")
	_, status = doJSON(t, s, "GET", "/api/status", "")
	if status["alert_mode"] != true {
		t.Fatalf("After start_alert: %v", status)
	}
	if status["tracking_active"] != true {
		t.Error("tracking_active should be unaffected by alert")
	}

	doJSON(t, s, "POST", "/api/stop_alert", "")
	_, status = doJSON(t, s, "GET", "/api/status", "")
	if status["alert_mode"] != false {
		t.Fatalf("After stop_alert: %v", status)
	}
	if status["tracking_active"] != true {
		t.Error("tracking_active should remain true throughout")
	}

	doJSON(t, s, "POST", "/api/stop_tracking", "")
}
