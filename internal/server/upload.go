package server

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/K9MKE/archivewrapped/internal/analysis"
	"github.com/K9MKE/archivewrapped/internal/loader"
	"github.com/K9MKE/archivewrapped/internal/render"
)

var requiredFiles = []string{loader.SummaryFile, loader.FavoritesFile, loader.DetailedFile}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, http.StatusBadRequest, "No file selected")
		return
	}

	// Isolated working directory for this request, reclaimed no matter
	// how processing ends. Slides are written outside it, under the
	// serving directory, before it goes away.
	tempDir, err := os.MkdirTemp("", "wrapped-upload-")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Could not create working directory")
		return
	}
	defer os.RemoveAll(tempDir)

	dataDir := filepath.Join(tempDir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		respondError(w, http.StatusInternalServerError, "Could not create working directory")
		return
	}

	uploadPath := filepath.Join(tempDir, filepath.Base(header.Filename))
	if err := saveUpload(file, uploadPath); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving upload: %v", err))
		return
	}

	if strings.HasSuffix(strings.ToLower(uploadPath), ".zip") {
		if err := extractZip(uploadPath, dataDir); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Error extracting archive: %v", err))
			return
		}
	} else {
		if err := copyFile(uploadPath, filepath.Join(dataDir, filepath.Base(uploadPath))); err != nil {
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
			return
		}
	}

	if err := gatherExportFiles(dataDir); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	store, _, err := loader.LoadIntoStore(dataDir, s.cfg.Year)
	if err != nil {
		status := http.StatusInternalServerError
		var missing *loader.MissingFileError
		var parse *loader.ParseError
		if errors.As(err, &missing) || errors.As(err, &parse) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	defer store.Close()

	report, err := analysis.GenerateReport(store.DB(), s.cfg.TopN)
	if err != nil {
		status := http.StatusInternalServerError
		var empty *analysis.EmptyDatasetError
		if errors.As(err, &empty) {
			status = http.StatusBadRequest
		}
		respondError(w, status, fmt.Sprintf("Error processing file: %v", err))
		return
	}

	runID := uuid.NewString()
	renderer := &render.Renderer{
		OutputDir: filepath.Join(s.cfg.OutputDir, runID),
		Palette:   render.DefaultPalette(),
		Year:      s.cfg.Year,
	}
	if s.cfg.Artwork != nil {
		ctx := r.Context()
		renderer.Artwork = func(recordingID string) string {
			return s.cfg.Artwork.ArtworkURL(ctx, recordingID)
		}
	}

	slideNames, err := renderer.GenerateAll(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating slides: %v", err))
		return
	}

	slides := make([]string, 0, len(slideNames))
	for _, name := range slideNames {
		slides = append(slides, runID+"/"+name)
	}

	log.Info().
		Str("run", runID).
		Int("sessions", report.Summary.TotalSessions).
		Int("slides", len(slides)).
		Msg("Generated wrapped")

	respondJSON(w, http.StatusOK, uploadResponse{
		Success: true,
		Stats: &uploadStats{
			TotalHours:    report.Summary.TotalHours,
			TotalArtists:  report.Summary.UniqueArtists,
			TotalShows:    report.Summary.UniqueShows,
			TotalSessions: report.Summary.TotalSessions,
		},
		Slides:   slides,
		Insights: report.Insights,
	})
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	run := filepath.Base(vars["run"])
	name := filepath.Base(vars["name"])

	path := filepath.Join(s.cfg.OutputDir, run, name)
	if !strings.HasSuffix(name, ".svg") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func saveUpload(src io.Reader, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return saveUpload(in, dst)
}

// extractZip unpacks an archive, rejecting entries that would escape the
// destination directory.
func extractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer reader.Close()

	cleanDest := filepath.Clean(dest)
	for _, entry := range reader.File {
		target := filepath.Join(cleanDest, entry.Name)
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes extraction directory", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		in, err := entry.Open()
		if err != nil {
			return err
		}
		err = saveUpload(in, target)
		in.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// gatherExportFiles copies required export files found in subdirectories
// up to the data root, so exports zipped with a wrapping folder still load.
func gatherExportFiles(dataDir string) error {
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dataDir, name)); err == nil {
			continue
		}

		err := filepath.WalkDir(dataDir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if filepath.Base(path) == name {
				if copyErr := copyFile(path, filepath.Join(dataDir, name)); copyErr != nil {
					return copyErr
				}
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
