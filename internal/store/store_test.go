package store

import (
	"testing"
	"time"
)

func TestAddSessionsPreservesOrder(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	defer s.Close()

	sessions := []SessionImport{
		{
			SessionIdentifier:   "s1",
			RecordingIdentifier: "gd1977-05-08",
			ArtistName:          "Grateful Dead",
			ShowDate:            "1977-05-08",
			Venue:               "Barton Hall",
			Location:            "Ithaca, NY",
			ListenedOn:          time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC),
			Duration:            5400,
			PercentListened:     0.9,
		},
		{
			SessionIdentifier:   "s2",
			RecordingIdentifier: "phish1997-11-17",
			ArtistName:          "Phish",
			ShowDate:            "1997-11-17",
			Venue:               "McNichols Arena",
			Location:            "Denver, CO",
			ListenedOn:          time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC),
			Duration:            7300,
			PercentListened:     1.0,
		},
	}

	if err := s.AddSessions(sessions); err != nil {
		t.Fatalf("AddSessions failed: %v", err)
	}

	rows, err := s.DB().Query("SELECT session_identifier FROM Session ORDER BY id")
	if err != nil {
		t.Fatalf("querying sessions: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scanning session: %v", err)
		}
		got = append(got, id)
	}

	want := []string{"s1", "s2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestAddFavorites(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	defer s.Close()

	favorites := []FavoriteImport{
		{Identifier: "Grateful Dead", Type: "artist", DateAdded: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Identifier: "gd1977-05-08", Type: "recording", DateAdded: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
	}
	if err := s.AddFavorites(favorites); err != nil {
		t.Fatalf("AddFavorites failed: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM Favorite WHERE favorite_type = 'artist'").Scan(&count); err != nil {
		t.Fatalf("counting favorites: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 favorite artist, got %d", count)
	}
}
