package domain

import "time"

// DayLayout is the ISO-8601 calendar date layout used in the published snapshot.
const DayLayout = "2006-01-02"

// CachedQuote is the motivational quote kept for the rest of a calendar day.
type CachedQuote struct {
	Content  string `json:"content"`
	Author   string `json:"author"`
	CachedOn string `json:"cachedOn"` // DayLayout
}

// CalendarEntry is one renderable state of the calendar widget.
type CalendarEntry struct {
	Month          time.Time `json:"month"` // First day of the displayed month
	Days           []int     `json:"days"`  // Days of Month with at least one workout, ascending
	HighlightColor string    `json:"highlightColor,omitempty"`
}

// QuoteEntry is one renderable state of the quote widget.
type QuoteEntry struct {
	Date   time.Time `json:"date"`
	Quote  string    `json:"quote"`
	Author string    `json:"author"`
}

// Timeline pairs an entry with the moment the host should ask for the next one.
type Timeline[E any] struct {
	Entries     []E       `json:"entries"`
	NextRefresh time.Time `json:"nextRefresh"`
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfNextDay is midnight after t in t's location.
func StartOfNextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// StartOfMonth is the first instant of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
