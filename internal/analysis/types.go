package analysis

import "time"

// Report is everything the presentation layer consumes for one run.
type Report struct {
	Summary            Summary       `json:"summary"`
	TopArtists         []ArtistStat  `json:"top_artists"`
	TopShows           []ShowStat    `json:"top_shows"`
	TopDays            []DayStat     `json:"top_days"`
	ByDayOfWeek        []WeekdayStat `json:"by_day_of_week"`
	ByMonth            []MonthStat   `json:"by_month"`
	FavoriteArtists    []Favorite    `json:"favorite_artists"`
	FavoriteRecordings []Favorite    `json:"favorite_recordings"`
	Insights           []string      `json:"insights"`
}

// TimeTotals is the effective listening time across all sessions.
// Days are hours/24, not calendar days.
type TimeTotals struct {
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	TotalDays    float64 `json:"total_days"`
}

type Summary struct {
	TimeTotals
	FirstListen          time.Time `json:"first_listen"`
	LastListen           time.Time `json:"last_listen"`
	ListeningPeriodDays  int       `json:"listening_period_days"`
	UniqueArtists        int       `json:"unique_artists"`
	UniqueShows          int       `json:"unique_shows"`
	TotalSessions        int       `json:"total_sessions"`
	FavoriteArtistCount  int       `json:"favorite_artists_count"`
	FavoriteRecordingCnt int       `json:"favorite_recordings_count"`
}

type ArtistStat struct {
	Name         string  `json:"name"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
}

// ShowStat identifies one show: the (artist, show date, venue) tuple plus
// the recording it was heard through.
type ShowStat struct {
	Artist       string  `json:"artist"`
	Date         string  `json:"date"`
	Venue        string  `json:"venue"`
	Location     string  `json:"location"`
	RecordingID  string  `json:"recording_id"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	ListenCount  int     `json:"listen_count"`
}

type DayStat struct {
	Date         string  `json:"date"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
}

type WeekdayStat struct {
	Day          string  `json:"day"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	SessionCount int     `json:"session_count"`
}

type MonthStat struct {
	Month        string  `json:"month"`
	TotalSeconds float64 `json:"total_seconds"`
	TotalMinutes float64 `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	SessionCount int     `json:"session_count"`
}

type Favorite struct {
	Identifier string    `json:"identifier"`
	Type       string    `json:"type"`
	DateAdded  time.Time `json:"date_added"`
}
