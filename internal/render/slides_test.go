package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/K9MKE/archivewrapped/internal/analysis"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Summary: analysis.Summary{
			TimeTotals:    analysis.TimeTotals{TotalMinutes: 6000, TotalHours: 100, TotalDays: 4.17},
			FirstListen:   time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
			LastListen:    time.Date(2025, 12, 20, 22, 0, 0, 0, time.UTC),
			UniqueArtists: 12,
			UniqueShows:   40,
			TotalSessions: 250,
		},
		TopArtists: []analysis.ArtistStat{
			{Name: "Grateful Dead & Friends", TotalHours: 60, SessionCount: 150},
			{Name: "Phish", TotalHours: 40, SessionCount: 100},
		},
		TopShows: []analysis.ShowStat{
			{Artist: "Grateful Dead", Date: "1977-05-08", Venue: "Barton Hall", RecordingID: "gd77", TotalHours: 12, ListenCount: 9},
		},
		TopDays: []analysis.DayStat{
			{Date: "2025-07-04", TotalHours: 6.5, SessionCount: 8},
		},
		Insights: []string{"3-day listening streak", "Night owl (peak at 23:00)"},
	}
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{OutputDir: dir, Palette: DefaultPalette(), Year: 2025}

	names, err := r.GenerateAll(sampleReport())
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	if len(names) != 7 {
		t.Fatalf("expected 7 slides, got %d", len(names))
	}
	if names[0] != "01_intro.svg" || names[6] != "07_summary.svg" {
		t.Errorf("unexpected slide order: %v", names)
	}

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("slide %s not written: %v", name, err)
		}
		content := string(data)
		if !strings.HasPrefix(content, "<svg") || !strings.HasSuffix(content, "</svg>") {
			t.Errorf("slide %s is not a complete SVG document", name)
		}
	}
}

func TestArtistNamesAreEscaped(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{OutputDir: dir, Palette: DefaultPalette(), Year: 2025}

	if _, err := r.GenerateAll(sampleReport()); err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "03_top_artists.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Grateful Dead & Friends") {
		t.Errorf("raw ampersand leaked into SVG")
	}
	if !strings.Contains(string(data), "Grateful Dead &amp; Friends") {
		t.Errorf("expected escaped artist name in slide")
	}
}

func TestTopShowSlideEmbedsArtwork(t *testing.T) {
	dir := t.TempDir()
	r := &Renderer{
		OutputDir: dir,
		Palette:   DefaultPalette(),
		Year:      2025,
		Artwork: func(recordingID string) string {
			if recordingID != "gd77" {
				t.Errorf("expected artwork lookup for gd77, got %s", recordingID)
			}
			return "https://archive.org/download/gd77/itemimage.jpg"
		},
	}

	if _, err := r.GenerateAll(sampleReport()); err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "04_top_shows.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "itemimage.jpg") {
		t.Errorf("expected artwork image in top shows slide")
	}
}
