package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.LiveService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	live, err := service.NewLiveService(-85, t.TempDir(), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	datasets := service.NewDatasetService(nil, nil)
	analysis := service.NewAnalysisService(-100, datasets, live, nil, nil)

	liveHandler := NewLiveHandler(live)
	settingsHandler := NewSettingsHandler(live, analysis)

	r := gin.New()
	r.POST("/live/rssi", liveHandler.IngestRSSI)
	r.PUT("/settings/trigger", settingsHandler.SetTrigger)
	return r, live
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetTriggerAcceptsZeroThreshold(t *testing.T) {
	r, live := newTestRouter(t)

	// 0 dBm is the valid upper bound of the threshold range.
	w := doJSON(t, r, http.MethodPut, "/settings/trigger", `{"thresholdDbm": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s, want 200", w.Code, w.Body.String())
	}
	if got := live.TriggerConfig().ThresholdDbm; got != 0 {
		t.Fatalf("threshold = %v, want 0", got)
	}

	// A missing field is still rejected.
	w = doJSON(t, r, http.MethodPut, "/settings/trigger", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status for missing field = %d, want 400", w.Code)
	}

	// Out-of-range values reach the validator, not the binder.
	w = doJSON(t, r, http.MethodPut, "/settings/trigger", `{"thresholdDbm": 5}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status for 5 dBm = %d, want 400", w.Code)
	}
}

func TestIngestRSSIAcceptsZeroReading(t *testing.T) {
	r, live := newTestRouter(t)

	if _, err := live.StartSession(); err != nil {
		t.Fatal(err)
	}
	defer live.StopSession()

	w := doJSON(t, r, http.MethodPost, "/live/rssi", `{"rssiDbm": 0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s, want 200", w.Code, w.Body.String())
	}
	if got := live.Status().LastRSSI; got == nil || *got != 0 {
		t.Fatalf("last rssi = %v, want 0", got)
	}

	w = doJSON(t, r, http.MethodPost, "/live/rssi", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status for missing field = %d, want 400", w.Code)
	}
}
