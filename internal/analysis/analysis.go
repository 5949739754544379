// Package analysis computes the wrapped statistics and insights for one
// year of listening history. Every query reads the per-run session table;
// nothing here mutates it.
package analysis

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// effectiveSeconds is the listening-time metric everywhere: a session
// contributes duration scaled by how much of it was actually heard.
// percent_listened can exceed 1 (replays) and is deliberately not clamped.
const effectiveSeconds = "duration * percent_listened"

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// GenerateReport runs every aggregation plus the insight rules and
// assembles the structure the renderer and HTTP layer consume.
func GenerateReport(db *sql.DB, topN int) (*Report, error) {
	summary, err := GetSummary(db)
	if err != nil {
		return nil, fmt.Errorf("stats summary: %w", err)
	}

	topArtists, err := TopArtists(db, topN)
	if err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	topShows, err := TopShows(db, topN)
	if err != nil {
		return nil, fmt.Errorf("top shows: %w", err)
	}
	topDays, err := TopListeningDays(db, topN)
	if err != nil {
		return nil, fmt.Errorf("top listening days: %w", err)
	}
	byWeekday, err := ListeningByDayOfWeek(db)
	if err != nil {
		return nil, fmt.Errorf("listening by day of week: %w", err)
	}
	byMonth, err := ListeningByMonth(db)
	if err != nil {
		return nil, fmt.Errorf("listening by month: %w", err)
	}

	favoriteArtists, err := FavoriteArtists(db)
	if err != nil {
		return nil, fmt.Errorf("favorite artists: %w", err)
	}
	favoriteRecordings, err := FavoriteRecordings(db)
	if err != nil {
		return nil, fmt.Errorf("favorite recordings: %w", err)
	}

	insights, err := Insights(db)
	if err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}

	return &Report{
		Summary:            *summary,
		TopArtists:         topArtists,
		TopShows:           topShows,
		TopDays:            topDays,
		ByDayOfWeek:        byWeekday,
		ByMonth:            byMonth,
		FavoriteArtists:    favoriteArtists,
		FavoriteRecordings: favoriteRecordings,
		Insights:           insights,
	}, nil
}

// TotalListeningTime sums effective seconds across all sessions.
func TotalListeningTime(db *sql.DB) (*TimeTotals, error) {
	if err := ensureSessions(db, "total listening time"); err != nil {
		return nil, err
	}

	var totalSeconds float64
	err := db.QueryRow("SELECT SUM(" + effectiveSeconds + ") FROM Session").Scan(&totalSeconds)
	if err != nil {
		return nil, fmt.Errorf("summing listening time: %w", err)
	}

	totalMinutes := totalSeconds / 60
	totalHours := totalMinutes / 60
	return &TimeTotals{
		TotalMinutes: round2(totalMinutes),
		TotalHours:   round2(totalHours),
		TotalDays:    round2(totalHours / 24),
	}, nil
}

// TopArtists groups by artist name, ranked by summed effective seconds.
// Ties break by encounter order in the source data.
func TopArtists(db *sql.DB, limit int) ([]ArtistStat, error) {
	if err := ensureSessions(db, "top artists"); err != nil {
		return nil, err
	}

	query := `
		SELECT artist_name, SUM(` + effectiveSeconds + `) AS total, COUNT(*)
		FROM Session
		GROUP BY artist_name
		ORDER BY total DESC, MIN(id) ASC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var artists []ArtistStat
	for rows.Next() {
		var a ArtistStat
		if err := rows.Scan(&a.Name, &a.TotalSeconds, &a.SessionCount); err != nil {
			return nil, fmt.Errorf("scanning artist: %w", err)
		}
		a.TotalMinutes = a.TotalSeconds / 60
		a.TotalHours = a.TotalMinutes / 60
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ListeningByDayOfWeek always returns exactly 7 rows in Monday-Sunday
// order, zero-filled for days with no sessions.
func ListeningByDayOfWeek(db *sql.DB) ([]WeekdayStat, error) {
	if err := ensureSessions(db, "listening by day of week"); err != nil {
		return nil, err
	}

	// sqlite %w: 0 = Sunday.
	query := `
		SELECT CAST(strftime('%w', datetime(listened_on, 'unixepoch')) AS INTEGER),
			SUM(` + effectiveSeconds + `), COUNT(*)
		FROM Session
		GROUP BY 1
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying weekdays: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]WeekdayStat)
	for rows.Next() {
		var weekday int
		var seconds float64
		var count int
		if err := rows.Scan(&weekday, &seconds, &count); err != nil {
			return nil, fmt.Errorf("scanning weekday: %w", err)
		}
		totals[weekday] = WeekdayStat{TotalSeconds: seconds, SessionCount: count}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]WeekdayStat, 0, 7)
	for i, day := range weekdayOrder {
		sqliteDay := (i + 1) % 7 // Monday=1 ... Saturday=6, Sunday=0
		stat := totals[sqliteDay]
		stat.Day = day
		stat.TotalMinutes = stat.TotalSeconds / 60
		stats = append(stats, stat)
	}
	return stats, nil
}

// TopListeningDays ranks calendar days by summed effective seconds.
func TopListeningDays(db *sql.DB, limit int) ([]DayStat, error) {
	if err := ensureSessions(db, "top listening days"); err != nil {
		return nil, err
	}

	query := `
		SELECT strftime('%Y-%m-%d', datetime(listened_on, 'unixepoch')) AS day,
			SUM(` + effectiveSeconds + `) AS total, COUNT(*)
		FROM Session
		GROUP BY day
		ORDER BY total DESC, MIN(id) ASC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top days: %w", err)
	}
	defer rows.Close()

	var days []DayStat
	for rows.Next() {
		var d DayStat
		if err := rows.Scan(&d.Date, &d.TotalSeconds, &d.SessionCount); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		d.TotalHours = d.TotalSeconds / 3600
		days = append(days, d)
	}
	return days, rows.Err()
}

// ListeningByMonth returns the months with sessions, chronologically.
func ListeningByMonth(db *sql.DB) ([]MonthStat, error) {
	if err := ensureSessions(db, "listening by month"); err != nil {
		return nil, err
	}

	query := `
		SELECT strftime('%Y-%m', datetime(listened_on, 'unixepoch')) AS month,
			SUM(` + effectiveSeconds + `), COUNT(*)
		FROM Session
		GROUP BY month
		ORDER BY month ASC
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying months: %w", err)
	}
	defer rows.Close()

	var months []MonthStat
	for rows.Next() {
		var m MonthStat
		if err := rows.Scan(&m.Month, &m.TotalSeconds, &m.SessionCount); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}
		m.TotalMinutes = m.TotalSeconds / 60
		m.TotalHours = m.TotalMinutes / 60
		months = append(months, m)
	}
	return months, rows.Err()
}

// TopShows ranks distinct (artist, show date, venue, location, recording)
// tuples; each session of the same tuple counts as one listen.
func TopShows(db *sql.DB, limit int) ([]ShowStat, error) {
	if err := ensureSessions(db, "top shows"); err != nil {
		return nil, err
	}

	query := `
		SELECT artist_name, show_date, venue, location, recording_identifier,
			SUM(` + effectiveSeconds + `) AS total, COUNT(session_identifier)
		FROM Session
		GROUP BY artist_name, show_date, venue, location, recording_identifier
		ORDER BY total DESC, MIN(id) ASC
		LIMIT ?
	`
	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top shows: %w", err)
	}
	defer rows.Close()

	var shows []ShowStat
	for rows.Next() {
		var s ShowStat
		if err := rows.Scan(&s.Artist, &s.Date, &s.Venue, &s.Location, &s.RecordingID, &s.TotalSeconds, &s.ListenCount); err != nil {
			return nil, fmt.Errorf("scanning show: %w", err)
		}
		s.TotalHours = s.TotalSeconds / 3600
		shows = append(shows, s)
	}
	return shows, rows.Err()
}

// FavoriteArtists returns favorited artists, newest first.
func FavoriteArtists(db *sql.DB) ([]Favorite, error) {
	return favoritesByType(db, "artist")
}

// FavoriteRecordings returns favorited recordings, newest first.
func FavoriteRecordings(db *sql.DB) ([]Favorite, error) {
	return favoritesByType(db, "recording")
}

func favoritesByType(db *sql.DB, favoriteType string) ([]Favorite, error) {
	query := `
		SELECT favorite_identifier, favorite_type, date_added
		FROM Favorite
		WHERE favorite_type = ?
		ORDER BY date_added DESC, id ASC
	`
	rows, err := db.Query(query, favoriteType)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var f Favorite
		var added int64
		if err := rows.Scan(&f.Identifier, &f.Type, &added); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		f.DateAdded = time.Unix(added, 0).UTC()
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

// GetSummary computes the overall statistics record.
func GetSummary(db *sql.DB) (*Summary, error) {
	totals, err := TotalListeningTime(db)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TimeTotals: *totals}

	var first, last int64
	err = db.QueryRow("SELECT MIN(listened_on), MAX(listened_on), COUNT(*) FROM Session").
		Scan(&first, &last, &summary.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("querying listen range: %w", err)
	}
	summary.FirstListen = time.Unix(first, 0).UTC()
	summary.LastListen = time.Unix(last, 0).UTC()
	summary.ListeningPeriodDays = int(summary.LastListen.Sub(summary.FirstListen).Hours() / 24)

	err = db.QueryRow("SELECT COUNT(DISTINCT artist_name) FROM Session").Scan(&summary.UniqueArtists)
	if err != nil {
		return nil, fmt.Errorf("counting artists: %w", err)
	}
	err = db.QueryRow("SELECT COUNT(DISTINCT recording_identifier) FROM Session").Scan(&summary.UniqueShows)
	if err != nil {
		return nil, fmt.Errorf("counting shows: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM Favorite WHERE favorite_type = 'artist'").Scan(&summary.FavoriteArtistCount)
	if err != nil {
		return nil, fmt.Errorf("counting favorite artists: %w", err)
	}
	err = db.QueryRow("SELECT COUNT(*) FROM Favorite WHERE favorite_type = 'recording'").Scan(&summary.FavoriteRecordingCnt)
	if err != nil {
		return nil, fmt.Errorf("counting favorite recordings: %w", err)
	}

	return summary, nil
}

func ensureSessions(db *sql.DB, query string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM Session").Scan(&count); err != nil {
		return fmt.Errorf("counting sessions: %w", err)
	}
	if count == 0 {
		return &EmptyDatasetError{Query: query}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
