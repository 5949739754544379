// Package loader parses an Archive.org listening-history export into the
// per-run analysis store. Rows outside the target year are dropped before
// anything downstream sees them.
package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/K9MKE/archivewrapped/internal/store"
)

// Export file names as written by Archive.org.
const (
	SummaryFile   = "ListeningHistorySummary.tsv"
	FavoritesFile = "Favorites.tsv"
	DetailedFile  = "DetailedListeningHistory.json"
)

// DefaultTargetYear scopes the analysis. It is configuration, never
// inferred from the data.
const DefaultTargetYear = 2025

// Timestamp layouts seen in exports, tried in order. All values are
// timezone-naive and treated as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DetailedHistory is the nested per-artist export. Only the artist count
// is consumed today; the rest is an extension point.
type DetailedHistory struct {
	Artists []json.RawMessage `json:"artists"`
}

// Data is one parsed, year-filtered export.
type Data struct {
	Sessions  []store.SessionImport
	Favorites []store.FavoriteImport
	Detailed  DetailedHistory
}

// Load parses the three export files under dataDir, keeping only rows in
// the target year. A missing file yields a MissingFileError, a malformed
// one a ParseError.
func Load(dataDir string, year int) (*Data, error) {
	data := &Data{}

	sessions, err := loadSessions(filepath.Join(dataDir, SummaryFile), year)
	if err != nil {
		return nil, err
	}
	data.Sessions = sessions

	favorites, err := loadFavorites(filepath.Join(dataDir, FavoritesFile), year)
	if err != nil {
		return nil, err
	}
	data.Favorites = favorites

	detailed, err := loadDetailed(filepath.Join(dataDir, DetailedFile))
	if err != nil {
		return nil, err
	}
	data.Detailed = detailed

	log.Info().
		Int("sessions", len(data.Sessions)).
		Int("favorites", len(data.Favorites)).
		Int("artists", len(data.Detailed.Artists)).
		Int("year", year).
		Msg("Loaded listening history export")

	return data, nil
}

// LoadIntoStore parses the export and imports it into a fresh in-memory
// store for one analysis run.
func LoadIntoStore(dataDir string, year int) (*store.Store, *Data, error) {
	data, err := Load(dataDir, year)
	if err != nil {
		return nil, nil, err
	}

	s, err := store.NewMemory()
	if err != nil {
		return nil, nil, err
	}
	if err := s.AddSessions(data.Sessions); err != nil {
		s.Close()
		return nil, nil, err
	}
	if err := s.AddFavorites(data.Favorites); err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, data, nil
}

func loadSessions(path string, year int) ([]store.SessionImport, error) {
	records, index, err := readTSV(path, []string{
		"listenedOn", "duration", "percentListenedTo", "artistName",
		"showDate", "venue", "location", "recordingIdentifier", "sessionIdentifier",
	})
	if err != nil {
		return nil, err
	}

	var sessions []store.SessionImport
	for i, record := range records {
		listenedOn, err := parseTimestamp(record[index["listenedOn"]])
		if err != nil {
			return nil, &ParseError{File: SummaryFile, Err: fmt.Errorf("row %d: listenedOn: %w", i+2, err)}
		}
		if listenedOn.Year() != year {
			continue
		}

		duration, err := strconv.ParseFloat(record[index["duration"]], 64)
		if err != nil {
			return nil, &ParseError{File: SummaryFile, Err: fmt.Errorf("row %d: duration: %w", i+2, err)}
		}
		// percentListenedTo may exceed 1 when replays overlap partial
		// listens; kept as-is, never clamped.
		percent, err := strconv.ParseFloat(record[index["percentListenedTo"]], 64)
		if err != nil {
			return nil, &ParseError{File: SummaryFile, Err: fmt.Errorf("row %d: percentListenedTo: %w", i+2, err)}
		}

		sessions = append(sessions, store.SessionImport{
			SessionIdentifier:   record[index["sessionIdentifier"]],
			RecordingIdentifier: record[index["recordingIdentifier"]],
			ArtistName:          record[index["artistName"]],
			ShowDate:            record[index["showDate"]],
			Venue:               record[index["venue"]],
			Location:            record[index["location"]],
			ListenedOn:          listenedOn,
			Duration:            duration,
			PercentListened:     percent,
		})
	}
	return sessions, nil
}

func loadFavorites(path string, year int) ([]store.FavoriteImport, error) {
	records, index, err := readTSV(path, []string{"dateAdded", "favoriteType", "favoriteIdentifier"})
	if err != nil {
		return nil, err
	}

	var favorites []store.FavoriteImport
	for i, record := range records {
		dateAdded, err := parseTimestamp(record[index["dateAdded"]])
		if err != nil {
			return nil, &ParseError{File: FavoritesFile, Err: fmt.Errorf("row %d: dateAdded: %w", i+2, err)}
		}
		if dateAdded.Year() != year {
			continue
		}

		favorites = append(favorites, store.FavoriteImport{
			Identifier: record[index["favoriteIdentifier"]],
			Type:       record[index["favoriteType"]],
			DateAdded:  dateAdded,
		})
	}
	return favorites, nil
}

func loadDetailed(path string) (DetailedHistory, error) {
	var detailed DetailedHistory

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return detailed, &MissingFileError{Name: DetailedFile}
		}
		return detailed, fmt.Errorf("opening %s: %w", DetailedFile, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&detailed); err != nil {
		return detailed, &ParseError{File: DetailedFile, Err: err}
	}
	return detailed, nil
}

// readTSV reads a tab-separated file with a header row and returns the
// data records plus a column-name index. Missing required columns are a
// ParseError.
func readTSV(path string, required []string) ([][]string, map[string]int, error) {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &MissingFileError{Name: name}
		}
		return nil, nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, &ParseError{File: name, Err: fmt.Errorf("reading header: %w", err)}
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		index[column] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, nil, &ParseError{File: name, Err: fmt.Errorf("missing required column %q", column)}
		}
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{File: name, Err: err}
		}
		records = append(records, record)
	}
	return records, index, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}
