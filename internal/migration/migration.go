// Package migration holds the schema for the per-run analysis database.
package migration

// Create builds the session and favorite tables. The database lives for a
// single analysis run, so there is no versioned migration chain.
const Create = `
CREATE TABLE IF NOT EXISTS Session (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_identifier TEXT NOT NULL,
  recording_identifier TEXT NOT NULL,
  artist_name TEXT NOT NULL,
  show_date TEXT NOT NULL,
  venue TEXT NOT NULL,
  location TEXT NOT NULL,
  listened_on INTEGER NOT NULL,
  duration REAL NOT NULL,
  percent_listened REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS Favorite (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  favorite_identifier TEXT NOT NULL,
  favorite_type TEXT NOT NULL,
  date_added INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_listened_on ON Session(listened_on);
CREATE INDEX IF NOT EXISTS idx_session_artist ON Session(artist_name);
CREATE INDEX IF NOT EXISTS idx_favorite_type ON Favorite(favorite_type);
`
