// Package server exposes the upload-and-render HTTP endpoint. Each
// upload is processed in an isolated temporary directory that is removed
// unconditionally when the request ends.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/K9MKE/archivewrapped/internal/artwork"
)

// Config carries everything the HTTP layer needs for a run.
type Config struct {
	Addr           string
	OutputDir      string // generated slides live here, namespaced per run
	Year           int
	TopN           int
	MaxUploadBytes int64
	Artwork        *artwork.Client
}

// Server routes uploads through the analysis pipeline.
type Server struct {
	cfg Config
}

func New(cfg Config) *Server {
	if cfg.TopN == 0 {
		cfg.TopN = 10
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	return &Server{cfg: cfg}
}

// InitLogging sets up the global console logger.
func InitLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/slides/{run}/{name}", s.handleSlide).Methods(http.MethodGet)
	return r
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Int("year", s.cfg.Year).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Archive Wrapped %d</title></head>
<body>
<h1>Archive Wrapped %d</h1>
<p>Upload your Archive.org listening history export (.zip) to generate your wrapped.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".zip,.tsv,.json">
<button type="submit">Generate</button>
</form>
</body>
</html>`, s.cfg.Year, s.cfg.Year)
}

type uploadStats struct {
	TotalHours    float64 `json:"total_hours"`
	TotalArtists  int     `json:"total_artists"`
	TotalShows    int     `json:"total_shows"`
	TotalSessions int     `json:"total_sessions"`
}

type uploadResponse struct {
	Success  bool         `json:"success"`
	Stats    *uploadStats `json:"stats,omitempty"`
	Slides   []string     `json:"slides,omitempty"`
	Insights []string     `json:"insights,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body uploadResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, uploadResponse{Success: false, Error: message})
}
