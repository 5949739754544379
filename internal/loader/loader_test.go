package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const summaryHeader = "sessionIdentifier\trecordingIdentifier\tartistName\tshowDate\tvenue\tlocation\tlistenedOn\tduration\tpercentListenedTo\n"

func writeExport(t *testing.T, summaryRows, favoriteRows string) string {
	t.Helper()
	dir := t.TempDir()

	summary := summaryHeader + summaryRows
	if err := os.WriteFile(filepath.Join(dir, SummaryFile), []byte(summary), 0644); err != nil {
		t.Fatal(err)
	}

	favorites := "favoriteIdentifier\tfavoriteType\tdateAdded\n" + favoriteRows
	if err := os.WriteFile(filepath.Join(dir, FavoritesFile), []byte(favorites), 0644); err != nil {
		t.Fatal(err)
	}

	detailed := `{"artists": [{"name": "Grateful Dead"}, {"name": "Phish"}]}`
	if err := os.WriteFile(filepath.Join(dir, DetailedFile), []byte(detailed), 0644); err != nil {
		t.Fatal(err)
	}

	return dir
}

func TestLoadFiltersToTargetYear(t *testing.T) {
	dir := writeExport(t,
		"s1\tgd77\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2025-03-01T19:00:00\t5400\t0.9\n"+
			"s2\tgd77\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2024-12-31T23:00:00\t5400\t1.0\n"+
			"s3\tph97\tPhish\t1997-11-17\tMcNichols Arena\tDenver, CO\t2025-06-10T08:15:00\t7300\t1.2\n",
		"Grateful Dead\tartist\t2025-01-15\n"+
			"gd77\trecording\t2024-11-02\n")

	data, err := Load(dir, 2025)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(data.Sessions) != 2 {
		t.Errorf("expected 2 sessions after year filter, got %d", len(data.Sessions))
	}
	for _, s := range data.Sessions {
		if s.ListenedOn.Year() != 2025 {
			t.Errorf("session %s outside target year: %v", s.SessionIdentifier, s.ListenedOn)
		}
	}

	if len(data.Favorites) != 1 {
		t.Errorf("expected 1 favorite after year filter, got %d", len(data.Favorites))
	}

	if len(data.Detailed.Artists) != 2 {
		t.Errorf("expected 2 detailed artists, got %d", len(data.Detailed.Artists))
	}

	// percentListenedTo > 1 is legitimate and must pass through unclamped.
	found := false
	for _, s := range data.Sessions {
		if s.SessionIdentifier == "s3" {
			found = true
			if s.PercentListened != 1.2 {
				t.Errorf("expected percentListenedTo 1.2, got %f", s.PercentListened)
			}
		}
	}
	if !found {
		t.Errorf("session s3 not loaded")
	}
}

func TestLoadMissingSummary(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir, 2025)
	var missing *MissingFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFileError, got %v", err)
	}
	if missing.Name != SummaryFile {
		t.Errorf("expected missing %s, got %s", SummaryFile, missing.Name)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	// No percentListenedTo column.
	summary := "sessionIdentifier\tartistName\tlistenedOn\tduration\n" +
		"s1\tGrateful Dead\t2025-03-01T19:00:00\t5400\n"
	if err := os.WriteFile(filepath.Join(dir, SummaryFile), []byte(summary), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir, 2025)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestLoadBadTimestamp(t *testing.T) {
	dir := writeExport(t,
		"s1\tgd77\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\tnot-a-date\t5400\t0.9\n", "")

	_, err := Load(dir, 2025)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for bad timestamp, got %v", err)
	}
	if parseErr.File != SummaryFile {
		t.Errorf("expected error to name %s, got %s", SummaryFile, parseErr.File)
	}
}

func TestLoadIntoStore(t *testing.T) {
	dir := writeExport(t,
		"s1\tgd77\tGrateful Dead\t1977-05-08\tBarton Hall\tIthaca, NY\t2025-03-01T19:00:00\t5400\t0.9\n",
		"Grateful Dead\tartist\t2025-01-15\n")

	s, data, err := LoadIntoStore(dir, 2025)
	if err != nil {
		t.Fatalf("LoadIntoStore failed: %v", err)
	}
	defer s.Close()

	if len(data.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(data.Sessions))
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM Session").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 stored session, got %d", count)
	}
}
