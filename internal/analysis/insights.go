package analysis

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"
)

// Insight rule thresholds. These are heuristic constants carried over
// from the original report format; changing them changes historical
// output, so they stay literal.
const (
	streakMinDays       = 2    // emit only for streaks strictly longer
	weekendWarriorPct   = 60.0 // > : weekend warrior
	weekdayListenerPct  = 30.0 // < : weekday listener
	eclecticRatio       = 0.5  // > : eclectic taste
	superfanRatio       = 0.15 // < : superfan
	marathonDayHours    = 4.0  // a day over this is a marathon day
	explorerVenues      = 20   // > : concert explorer
	loyalVenues         = 5    // < : loyal to one venue
	habitualHourStd     = 3.0  // < : creature of habit
	freeSpiritHourStd   = 6.0  // > : free spirit
	discoveryMinDays    = 30   // distinct days needed for the split
	discoveryMinArtists = 5    // > : explorer mode
	completionistPct    = 75.0 // > : completionist
	samplerPct          = 25.0 // < : sampler
	fullListenThreshold = 0.8  // a session above this counts as heard fully
	epicSessionSeconds  = 7200 // > : epic session
	deepDiveMinShows    = 10   // > : deep dive into the superfan artist
)

type sessionRow struct {
	ListenedOn time.Time
	Artist     string
	ShowDate   string
	Venue      string
	Duration   float64
	Percent    float64
}

// insightContext precomputes the groupings the rules share. Rows are in
// source encounter order; all mode tie-breaks resolve to the first value
// encountered.
type insightContext struct {
	rows  []sessionRow
	dates []time.Time // sorted distinct calendar days

	hourCounts map[int]int
	hourOrder  []int

	artistCounts map[string]int
	artistOrder  []string

	venueCounts map[string]int
	venueOrder  []string

	monthCounts map[string]int
	monthOrder  []string

	diversityRatio float64
	topArtist      string // by session count; shared by rules 4 and 12
}

type insightRule struct {
	name  string
	apply func(c *insightContext) (string, bool)
}

// insightRules is the fixed evaluation order. Each rule is independent
// and contributes at most one statement; a precondition that is not met
// is a no-emit branch, not an error. New rules append here without
// touching existing ones.
var insightRules = []insightRule{
	{"streak", streakInsight},
	{"favorite-hour", favoriteHourInsight},
	{"weekend-ratio", weekendRatioInsight},
	{"artist-diversity", artistDiversityInsight},
	{"marathon-days", marathonDaysInsight},
	{"peak-month", peakMonthInsight},
	{"venue-variety", venueVarietyInsight},
	{"schedule-consistency", scheduleConsistencyInsight},
	{"discovery", discoveryInsight},
	{"completion-style", completionStyleInsight},
	{"longest-session", longestSessionInsight},
	{"deep-dive", deepDiveInsight},
}

// Insights evaluates every rule in order and returns the statements that
// fired. The sequence may be empty but the dataset may not.
func Insights(db *sql.DB) ([]string, error) {
	if err := ensureSessions(db, "insights"); err != nil {
		return nil, err
	}

	rows, err := loadSessionRows(db)
	if err != nil {
		return nil, err
	}
	ctx := newInsightContext(rows)

	var insights []string
	for _, rule := range insightRules {
		if statement, ok := rule.apply(ctx); ok {
			insights = append(insights, statement)
		}
	}
	return insights, nil
}

func loadSessionRows(db *sql.DB) ([]sessionRow, error) {
	query := `
		SELECT listened_on, artist_name, show_date, venue, duration, percent_listened
		FROM Session
		ORDER BY id ASC
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []sessionRow
	for rows.Next() {
		var s sessionRow
		var listenedOn int64
		if err := rows.Scan(&listenedOn, &s.Artist, &s.ShowDate, &s.Venue, &s.Duration, &s.Percent); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.ListenedOn = time.Unix(listenedOn, 0).UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func newInsightContext(rows []sessionRow) *insightContext {
	c := &insightContext{
		rows:         rows,
		hourCounts:   make(map[int]int),
		artistCounts: make(map[string]int),
		venueCounts:  make(map[string]int),
		monthCounts:  make(map[string]int),
	}

	seenDates := make(map[time.Time]bool)
	for _, row := range rows {
		day := dayOf(row.ListenedOn)
		if !seenDates[day] {
			seenDates[day] = true
			c.dates = append(c.dates, day)
		}

		hour := row.ListenedOn.Hour()
		if c.hourCounts[hour] == 0 {
			c.hourOrder = append(c.hourOrder, hour)
		}
		c.hourCounts[hour]++

		if c.artistCounts[row.Artist] == 0 {
			c.artistOrder = append(c.artistOrder, row.Artist)
		}
		c.artistCounts[row.Artist]++

		if c.venueCounts[row.Venue] == 0 {
			c.venueOrder = append(c.venueOrder, row.Venue)
		}
		c.venueCounts[row.Venue]++

		month := row.ListenedOn.Month().String()
		if c.monthCounts[month] == 0 {
			c.monthOrder = append(c.monthOrder, month)
		}
		c.monthCounts[month]++
	}

	sortTimes(c.dates)

	if len(rows) > 0 {
		c.diversityRatio = float64(len(c.artistCounts)) / float64(len(rows))
		c.topArtist = modeString(c.artistCounts, c.artistOrder)
	}
	return c
}

// Rule 1: longest run of consecutive calendar days with at least one session.
func streakInsight(c *insightContext) (string, bool) {
	if len(c.dates) <= 1 {
		return "", false
	}
	maxStreak, current := 1, 1
	for i := 1; i < len(c.dates); i++ {
		if c.dates[i].Sub(c.dates[i-1]) == 24*time.Hour {
			current++
			if current > maxStreak {
				maxStreak = current
			}
		} else {
			current = 1
		}
	}
	if maxStreak <= streakMinDays {
		return "", false
	}
	return fmt.Sprintf("%d-day listening streak", maxStreak), true
}

// Rule 2: mode of session start hour, bucketed into a time-of-day label.
func favoriteHourInsight(c *insightContext) (string, bool) {
	if len(c.rows) == 0 {
		return "", false
	}
	hour := modeInt(c.hourCounts, c.hourOrder)
	switch {
	case hour >= 5 && hour < 12:
		return fmt.Sprintf("Morning listener (peak at %d:00)", hour), true
	case hour >= 12 && hour < 17:
		return fmt.Sprintf("Afternoon vibes (peak at %d:00)", hour), true
	case hour >= 17 && hour < 21:
		return fmt.Sprintf("Evening sessions (peak at %d:00)", hour), true
	default:
		return fmt.Sprintf("Night owl (peak at %d:00)", hour), true
	}
}

// Rule 3: fraction of sessions on Saturday or Sunday.
func weekendRatioInsight(c *insightContext) (string, bool) {
	weekend := 0
	for _, row := range c.rows {
		switch row.ListenedOn.Weekday() {
		case time.Saturday, time.Sunday:
			weekend++
		}
	}
	pct := float64(weekend) / float64(len(c.rows)) * 100
	if pct > weekendWarriorPct {
		return fmt.Sprintf("Weekend warrior - %.0f%% on Sat/Sun", pct), true
	}
	if pct < weekdayListenerPct {
		return fmt.Sprintf("Weekday listener - %.0f%% Mon-Fri", 100-pct), true
	}
	return "", false
}

// Rule 4: distinct artists over total sessions.
func artistDiversityInsight(c *insightContext) (string, bool) {
	if c.diversityRatio > eclecticRatio {
		return fmt.Sprintf("Eclectic taste - %d different artists", len(c.artistCounts)), true
	}
	if c.diversityRatio < superfanRatio {
		return fmt.Sprintf("Superfan of %s", c.topArtist), true
	}
	return "", false
}

// Rule 5: days with more than four effective hours.
func marathonDaysInsight(c *insightContext) (string, bool) {
	dailyHours := make(map[time.Time]float64)
	for _, row := range c.rows {
		dailyHours[dayOf(row.ListenedOn)] += row.Duration * row.Percent / 3600
	}
	marathonDays := 0
	maxHours := 0.0
	for _, hours := range dailyHours {
		if hours > marathonDayHours {
			marathonDays++
		}
		if hours > maxHours {
			maxHours = hours
		}
	}
	if marathonDays == 0 {
		return "", false
	}
	return fmt.Sprintf("%d marathon listening days (max %.1fh)", marathonDays, maxHours), true
}

// Rule 6: mode of month name by session count.
func peakMonthInsight(c *insightContext) (string, bool) {
	if len(c.monthCounts) == 0 {
		return "", false
	}
	return fmt.Sprintf("Peak listening month: %s", modeString(c.monthCounts, c.monthOrder)), true
}

// Rule 7: distinct venue count.
func venueVarietyInsight(c *insightContext) (string, bool) {
	if len(c.venueCounts) > explorerVenues {
		return fmt.Sprintf("Concert explorer - %d different venues", len(c.venueCounts)), true
	}
	if len(c.venueCounts) < loyalVenues {
		return fmt.Sprintf("Loyal to %s", modeString(c.venueCounts, c.venueOrder)), true
	}
	return "", false
}

// Rule 8: sample standard deviation of session start hours. With fewer
// than two sessions the deviation is undefined and nothing emits.
func scheduleConsistencyInsight(c *insightContext) (string, bool) {
	if len(c.rows) < 2 {
		return "", false
	}
	var sum float64
	for _, row := range c.rows {
		sum += float64(row.ListenedOn.Hour())
	}
	mean := sum / float64(len(c.rows))

	var sq float64
	for _, row := range c.rows {
		d := float64(row.ListenedOn.Hour()) - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(c.rows)-1))

	if std < habitualHourStd {
		return "Creature of habit - consistent listening schedule", true
	}
	if std > freeSpiritHourStd {
		return "Free spirit - listening at all hours", true
	}
	return "", false
}

// Rule 9: artists present only in the second half of the listening
// period. The split is the distinct-day midpoint by index (len/2); an odd
// count biases one extra day into the second half, intentionally.
func discoveryInsight(c *insightContext) (string, bool) {
	if len(c.dates) <= discoveryMinDays {
		return "", false
	}
	split := c.dates[len(c.dates)/2]

	firstHalf := make(map[string]bool)
	secondHalf := make(map[string]bool)
	for _, row := range c.rows {
		if dayOf(row.ListenedOn).Before(split) {
			firstHalf[row.Artist] = true
		} else {
			secondHalf[row.Artist] = true
		}
	}

	newArtists := 0
	for artist := range secondHalf {
		if !firstHalf[artist] {
			newArtists++
		}
	}
	if newArtists <= discoveryMinArtists {
		return "", false
	}
	return fmt.Sprintf("Explorer mode - discovered %d new artists", newArtists), true
}

// Rule 10: share of sessions heard past the full-listen threshold.
func completionStyleInsight(c *insightContext) (string, bool) {
	full := 0
	for _, row := range c.rows {
		if row.Percent > fullListenThreshold {
			full++
		}
	}
	pct := float64(full) / float64(len(c.rows)) * 100
	if pct > completionistPct {
		return fmt.Sprintf("Completionist - %.0f%% shows heard fully", pct), true
	}
	if pct < samplerPct {
		return fmt.Sprintf("Sampler - explores %.0f%% partial shows", 100-pct), true
	}
	return "", false
}

// Rule 11: longest single session by raw duration, unscaled by percent.
func longestSessionInsight(c *insightContext) (string, bool) {
	var maxDuration float64
	for _, row := range c.rows {
		if row.Duration > maxDuration {
			maxDuration = row.Duration
		}
	}
	if maxDuration <= epicSessionSeconds {
		return "", false
	}
	return fmt.Sprintf("Epic session - %.1fh longest show", maxDuration/3600), true
}

// Rule 12: only when rule 4 classified a superfan, count distinct
// (show date, venue) combinations for that same artist.
func deepDiveInsight(c *insightContext) (string, bool) {
	if c.diversityRatio >= superfanRatio {
		return "", false
	}
	shows := make(map[[2]string]bool)
	for _, row := range c.rows {
		if row.Artist == c.topArtist {
			shows[[2]string{row.ShowDate, row.Venue}] = true
		}
	}
	if len(shows) <= deepDiveMinShows {
		return "", false
	}
	return fmt.Sprintf("Deep dive - %d different %s shows", len(shows), c.topArtist), true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortTimes(times []time.Time) {
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
}

// modeString picks the key with the highest count; ties resolve to the
// key encountered first.
func modeString(counts map[string]int, order []string) string {
	best := ""
	bestCount := -1
	for _, key := range order {
		if counts[key] > bestCount {
			best = key
			bestCount = counts[key]
		}
	}
	return best
}

func modeInt(counts map[int]int, order []int) int {
	best := 0
	bestCount := -1
	for _, key := range order {
		if counts[key] > bestCount {
			best = key
			bestCount = counts[key]
		}
	}
	return best
}
