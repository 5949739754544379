package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/K9MKE/archivewrapped/internal/loader"
)

const testSummary = "sessionIdentifier\trecordingIdentifier\tartistName\tshowDate\tvenue\tlocation\tlistenedOn\tduration\tpercentListenedTo\n" +
	"s1\tgd77\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2025-03-01T19:00:00\t5400\t0.9\n" +
	"s2\tph97\tPhish\t1997-11-17\tMcNichols Arena\tDenver, CO\t2025-06-10T08:15:00\t7300\t1.0\n"

const testFavorites = "favoriteIdentifier\tfavoriteType\tdateAdded\n" +
	"Grateful Dead\tartist\t2025-01-15\n"

const testDetailed = `{"artists": [{"name": "Grateful Dead"}]}`

func buildExportZip(t *testing.T, prefix string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(prefix + name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fullExport() map[string]string {
	return map[string]string{
		loader.SummaryFile:   testSummary,
		loader.FavoritesFile: testFavorites,
		loader.DetailedFile:  testDetailed,
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Addr:      ":0",
		OutputDir: t.TempDir(),
		Year:      2025,
		TopN:      10,
	})
}

func TestUploadZip(t *testing.T) {
	s := testServer(t)
	archive := buildExportZip(t, "", fullExport())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, uploadRequest(t, "export.zip", archive))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if resp.Stats == nil || resp.Stats.TotalSessions != 2 || resp.Stats.TotalArtists != 2 {
		t.Errorf("unexpected stats: %+v", resp.Stats)
	}
	if len(resp.Slides) != 7 {
		t.Errorf("expected 7 slides, got %d", len(resp.Slides))
	}

	// Generated slides are servable.
	slideReq := httptest.NewRequest(http.MethodGet, "/slides/"+resp.Slides[0], nil)
	slideRec := httptest.NewRecorder()
	s.Router().ServeHTTP(slideRec, slideReq)
	if slideRec.Code != http.StatusOK {
		t.Errorf("slide not served: %d", slideRec.Code)
	}
	if !strings.Contains(slideRec.Body.String(), "<svg") {
		t.Errorf("served slide is not SVG")
	}
}

func TestUploadZipWithWrappingFolder(t *testing.T) {
	s := testServer(t)
	archive := buildExportZip(t, "my-export/", fullExport())

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, uploadRequest(t, "export.zip", archive))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for nested export, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadMissingSummaryFile(t *testing.T) {
	s := testServer(t)
	files := fullExport()
	delete(files, loader.SummaryFile)
	archive := buildExportZip(t, "", files)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, uploadRequest(t, "export.zip", archive))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success {
		t.Errorf("expected failure response")
	}
	if !strings.Contains(resp.Error, loader.SummaryFile) {
		t.Errorf("error should name the missing file, got %q", resp.Error)
	}
}

func TestUploadNoFile(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty upload, got %d", rec.Code)
	}
}

func TestExtractZipRejectsEscape(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../escape.tsv")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("bad"))
	zw.Close()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bad.zip")
	if err := writeBytes(archivePath, buf.Bytes()); err != nil {
		t.Fatal(err)
	}

	if err := extractZip(archivePath, filepath.Join(dir, "out")); err == nil {
		t.Errorf("expected zip-slip entry to be rejected")
	}
}

func writeBytes(path string, data []byte) error {
	return saveUpload(bytes.NewReader(data), path)
}
