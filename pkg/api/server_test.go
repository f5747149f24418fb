package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter()
}

func uploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const testABC = "X:1\nT:Tune\nL:1/4\nK:C\nC D E F\n"

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", resp["status"])
	}
}

func TestFormatsEndpoint(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "musicxml") {
		t.Errorf("response missing musicxml: %s", w.Body.String())
	}
}

func TestConvertEndpoint(t *testing.T) {
	r := newTestRouter()

	req := uploadRequest(t, "/api/v1/convert?to=musicxml", "tune.abc", testABC)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "<score-partwise") {
		t.Errorf("response is not MusicXML: %s", w.Body.String())
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "tune.musicxml") {
		t.Errorf("Content-Disposition = %q, want tune.musicxml", got)
	}
}

func TestConvertEndpointNoFile(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/convert", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestConvertEndpointUnsupportedTarget(t *testing.T) {
	r := newTestRouter()

	req := uploadRequest(t, "/api/v1/convert?to=pdf", "tune.abc", testABC)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestTransposeEndpoint(t *testing.T) {
	r := newTestRouter()

	req := uploadRequest(t, "/api/v1/transpose?semitones=12", "tune.abc", testABC)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	// Up an octave: lowercase spellings in the ABC output.
	if !strings.Contains(w.Body.String(), "c d e f ||") {
		t.Errorf("response not transposed: %s", w.Body.String())
	}
}

func TestTransposeEndpointBadSemitones(t *testing.T) {
	r := newTestRouter()

	req := uploadRequest(t, "/api/v1/transpose?semitones=up", "tune.abc", testABC)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
