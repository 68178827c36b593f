package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpload(t *testing.T) {
	beforeSubmitted := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadSubmitted))
	beforeRejected := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadRejected))

	ObserveUpload(UploadSubmitted, 3)
	ObserveUpload(UploadRejected, 0)

	if got := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadSubmitted)); got != beforeSubmitted+1 {
		t.Fatalf("submitted uploads = %f, want %f", got, beforeSubmitted+1)
	}
	if got := testutil.ToFloat64(uploadsTotal.WithLabelValues(UploadRejected)); got != beforeRejected+1 {
		t.Fatalf("rejected uploads = %f, want %f", got, beforeRejected+1)
	}
	if testutil.CollectAndCount(uploadURLs) != 1 {
		t.Fatal("expected upload url histogram to be collected")
	}
}

func TestObserveUpstreamAndDownload(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("submit", "error"))
	ObserveUpstreamRequest("submit", "error", 20*time.Millisecond)
	if got := testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("submit", "error")); got != before+1 {
		t.Fatalf("upstream errors = %f, want %f", got, before+1)
	}

	beforeDownload := testutil.ToFloat64(downloadsTotal.WithLabelValues(DownloadResult, DownloadNotReady))
	ObserveDownload(DownloadResult, DownloadNotReady)
	if got := testutil.ToFloat64(downloadsTotal.WithLabelValues(DownloadResult, DownloadNotReady)); got != beforeDownload+1 {
		t.Fatalf("not-ready downloads = %f, want %f", got, beforeDownload+1)
	}
}

func TestHandlerExposesBridgeMetrics(t *testing.T) {
	ObserveDownload(DownloadTemplate, DownloadOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bridge_downloads_total") {
		t.Fatal("expected bridge_downloads_total in exposition")
	}
}
