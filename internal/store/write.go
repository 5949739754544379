package store

import (
	"fmt"
	"time"
)

// SessionImport is one listen event from the export, already filtered to
// the target year by the loader. Insertion order is preserved: downstream
// tie-breaks rely on rowid matching encounter order in the source file.
type SessionImport struct {
	SessionIdentifier   string
	RecordingIdentifier string
	ArtistName          string
	ShowDate            string
	Venue               string
	Location            string
	ListenedOn          time.Time
	Duration            float64
	PercentListened     float64
}

// FavoriteImport is one favorites-log row, already filtered to the target year.
type FavoriteImport struct {
	Identifier string
	Type       string
	DateAdded  time.Time
}

// AddSessions inserts a batch of sessions transactionally.
func (s *Store) AddSessions(sessions []SessionImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO Session (session_identifier, recording_identifier, artist_name,
			show_date, venue, location, listened_on, duration, percent_listened)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing session insert: %w", err)
	}
	defer stmt.Close()

	for _, session := range sessions {
		_, err := stmt.Exec(
			session.SessionIdentifier,
			session.RecordingIdentifier,
			session.ArtistName,
			session.ShowDate,
			session.Venue,
			session.Location,
			session.ListenedOn.Unix(),
			session.Duration,
			session.PercentListened,
		)
		if err != nil {
			return fmt.Errorf("inserting session %q: %w", session.SessionIdentifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// AddFavorites inserts a batch of favorites transactionally.
func (s *Store) AddFavorites(favorites []FavoriteImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, favorite := range favorites {
		_, err := tx.Exec(
			"INSERT INTO Favorite (favorite_identifier, favorite_type, date_added) VALUES (?, ?, ?)",
			favorite.Identifier, favorite.Type, favorite.DateAdded.Unix())
		if err != nil {
			return fmt.Errorf("inserting favorite %q: %w", favorite.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
