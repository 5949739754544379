// Package render draws the wrapped presentation as a sequence of SVG
// slides. Styling comes from an explicit Palette value, never from
// package-level state.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/K9MKE/archivewrapped/internal/analysis"
)

const (
	slideWidth  = 1080
	slideHeight = 1920
)

// Palette is the slide color scheme.
type Palette struct {
	Primary    string
	Accent     string
	Accent2    string
	Accent3    string
	Text       string
	Background string
	Gradient1  string
	Gradient2  string
}

// DefaultPalette matches the dark, green-accented wrapped look.
func DefaultPalette() Palette {
	return Palette{
		Primary:    "#1DB954",
		Accent:     "#1ed760",
		Accent2:    "#ff6b9d",
		Accent3:    "#c06cf5",
		Text:       "#FFFFFF",
		Background: "#0a0a0a",
		Gradient1:  "#1a1a2e",
		Gradient2:  "#16213e",
	}
}

// ArtworkFunc resolves a recording identifier to an image URL. A nil func
// or an empty result means no artwork on the slide.
type ArtworkFunc func(recordingID string) string

// Renderer writes one presentation's slides into OutputDir.
type Renderer struct {
	OutputDir string
	Palette   Palette
	Year      int
	Artwork   ArtworkFunc
}

// GenerateAll renders every slide and returns the file names in
// presentation order. All files are fully written before it returns, so
// the caller can reclaim the run's working directory afterwards.
func (r *Renderer) GenerateAll(report *analysis.Report) ([]string, error) {
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	slides := []struct {
		name string
		body func(*analysis.Report) string
	}{
		{"01_intro.svg", r.introSlide},
		{"02_total_time.svg", r.totalTimeSlide},
		{"03_top_artists.svg", r.topArtistsSlide},
		{"04_top_shows.svg", r.topShowsSlide},
		{"05_top_days.svg", r.topDaysSlide},
		{"06_insights.svg", r.insightsSlide},
		{"07_summary.svg", r.summarySlide},
	}

	var names []string
	for _, slide := range slides {
		path := filepath.Join(r.OutputDir, slide.name)
		if err := os.WriteFile(path, []byte(slide.body(report)), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", slide.name, err)
		}
		names = append(names, slide.name)
	}
	return names, nil
}

func (r *Renderer) introSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)
	b.title(560, fmt.Sprintf("Your %d", r.Year), r.Palette.Text, 110)
	b.title(700, "Wrapped", r.Palette.Primary, 150)
	b.line(900, "One year of live music, archived.", r.Palette.Text, 44)
	b.line(1500, fmt.Sprintf("%d sessions - %d artists", report.Summary.TotalSessions, report.Summary.UniqueArtists), r.Palette.Accent, 40)
	return b.close()
}

func (r *Renderer) totalTimeSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)
	b.title(420, "You listened for", r.Palette.Text, 64)
	b.title(680, fmt.Sprintf("%.0f", report.Summary.TotalHours), r.Palette.Primary, 220)
	b.title(820, "hours", r.Palette.Text, 72)
	b.line(1000, fmt.Sprintf("That's %.1f full days of music", report.Summary.TotalDays), r.Palette.Accent2, 44)
	b.line(1080, fmt.Sprintf("across %d listening sessions", report.Summary.TotalSessions), r.Palette.Text, 40)
	return b.close()
}

func (r *Renderer) topArtistsSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)
	b.title(260, "Top Artists", r.Palette.Primary, 96)
	y := 480
	for i, artist := range report.TopArtists {
		if i >= 5 {
			break
		}
		b.line(y, fmt.Sprintf("%d. %s", i+1, artist.Name), r.Palette.Text, 56)
		b.line(y+70, fmt.Sprintf("%.1f hours - %d sessions", artist.TotalHours, artist.SessionCount), r.Palette.Accent, 38)
		y += 220
	}
	return b.close()
}

func (r *Renderer) topShowsSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)

	// Artwork for the top show, when the artwork client is wired in.
	if r.Artwork != nil && len(report.TopShows) > 0 {
		if url := r.Artwork(report.TopShows[0].RecordingID); url != "" {
			b.image(url)
		}
	}

	b.title(260, "Top Shows", r.Palette.Accent3, 96)
	y := 480
	for i, show := range report.TopShows {
		if i >= 5 {
			break
		}
		b.line(y, fmt.Sprintf("%d. %s - %s", i+1, show.Artist, show.Date), r.Palette.Text, 48)
		b.line(y+64, fmt.Sprintf("%s - %.1f hours - %d listens", show.Venue, show.TotalHours, show.ListenCount), r.Palette.Accent, 36)
		y += 220
	}
	return b.close()
}

func (r *Renderer) topDaysSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)
	b.title(260, "Biggest Days", r.Palette.Accent2, 96)
	y := 480
	for i, day := range report.TopDays {
		if i >= 5 {
			break
		}
		b.line(y, fmt.Sprintf("%d. %s", i+1, day.Date), r.Palette.Text, 56)
		b.line(y+70, fmt.Sprintf("%.1f hours - %d sessions", day.TotalHours, day.SessionCount), r.Palette.Accent, 38)
		y += 220
	}
	return b.close()
}

func (r *Renderer) insightsSlide(report *analysis.Report) string {
	var b svgBuilder
	b.open(r.Palette)
	b.title(260, "Your Listening DNA", r.Palette.Primary, 80)
	y := 480
	for i, insight := range report.Insights {
		if i >= 8 {
			break
		}
		b.line(y, insight, r.Palette.Text, 40)
		y += 140
	}
	if len(report.Insights) == 0 {
		b.line(900, "A quiet year. More music next time?", r.Palette.Text, 44)
	}
	return b.close()
}

func (r *Renderer) summarySlide(report *analysis.Report) string {
	s := report.Summary
	var b svgBuilder
	b.open(r.Palette)
	b.title(300, fmt.Sprintf("%d in numbers", r.Year), r.Palette.Text, 88)

	rows := []string{
		fmt.Sprintf("%.0f hours listened", s.TotalHours),
		fmt.Sprintf("%d sessions", s.TotalSessions),
		fmt.Sprintf("%d artists", s.UniqueArtists),
		fmt.Sprintf("%d shows", s.UniqueShows),
		fmt.Sprintf("%d favorite artists", s.FavoriteArtistCount),
		fmt.Sprintf("%d favorite recordings", s.FavoriteRecordingCnt),
		fmt.Sprintf("%s to %s", s.FirstListen.Format("Jan 2"), s.LastListen.Format("Jan 2")),
	}
	y := 560
	for _, row := range rows {
		b.line(y, row, r.Palette.Accent, 48)
		y += 130
	}
	return b.close()
}

// svgBuilder accumulates one slide.
type svgBuilder struct {
	sb strings.Builder
}

func (b *svgBuilder) open(p Palette) {
	fmt.Fprintf(&b.sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		slideWidth, slideHeight, slideWidth, slideHeight)
	fmt.Fprintf(&b.sb, `<defs><linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0" stop-color="%s"/><stop offset="0.5" stop-color="%s"/><stop offset="1" stop-color="%s"/>`+
		`</linearGradient></defs>`, p.Gradient1, p.Background, p.Gradient2)
	fmt.Fprintf(&b.sb, `<rect width="%d" height="%d" fill="url(#bg)"/>`, slideWidth, slideHeight)
}

func (b *svgBuilder) title(y int, text, color string, size int) {
	fmt.Fprintf(&b.sb,
		`<text x="540" y="%d" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-weight="bold" font-size="%d" fill="%s">%s</text>`,
		y, size, color, escape(text))
}

func (b *svgBuilder) line(y int, text, color string, size int) {
	fmt.Fprintf(&b.sb,
		`<text x="540" y="%d" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-size="%d" fill="%s">%s</text>`,
		y, size, color, escape(text))
}

func (b *svgBuilder) image(url string) {
	fmt.Fprintf(&b.sb,
		`<image href="%s" x="0" y="0" width="%d" height="%d" preserveAspectRatio="xMidYMid slice" opacity="0.15"/>`,
		escape(url), slideWidth, slideHeight)
}

func (b *svgBuilder) close() string {
	b.sb.WriteString(`</svg>`)
	return b.sb.String()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
