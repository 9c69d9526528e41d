package widget

import (
	"context"
	"strconv"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/sirupsen/logrus"
)

// DefaultHighlightColor is used until the main process publishes one.
const DefaultHighlightColor = "#007AFF"

// DefaultReadTimeout bounds a single read of the shared data.
const DefaultReadTimeout = 5 * time.Second

// CalendarProvider produces calendar widget entries. Every failure degrades to an empty
// day-set; the widget has no way to report errors.
type CalendarProvider struct {
	source  DateSource
	kv      snapshot.KV // For the highlight color; may be nil
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCalendarProvider(source DateSource, kv snapshot.KV, timeout time.Duration, log logrus.FieldLogger) *CalendarProvider {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &CalendarProvider{source: source, kv: kv, timeout: timeout, log: log}
}

// Placeholder is rendered before any data is available.
func (p *CalendarProvider) Placeholder(now time.Time) domain.CalendarEntry {
	return domain.CalendarEntry{
		Month:          domain.StartOfMonth(now),
		Days:           []int{},
		HighlightColor: DefaultHighlightColor,
	}
}

// Snapshot renders the month containing now.
func (p *CalendarProvider) Snapshot(ctx context.Context, now time.Time) domain.CalendarEntry {
	return p.Entry(ctx, domain.StartOfMonth(now))
}

// Timeline renders the current month and asks to be refreshed at the next midnight.
func (p *CalendarProvider) Timeline(ctx context.Context, now time.Time) domain.Timeline[domain.CalendarEntry] {
	return domain.Timeline[domain.CalendarEntry]{
		Entries:     []domain.CalendarEntry{p.Snapshot(ctx, now)},
		NextRefresh: domain.StartOfNextDay(now),
	}
}

type calendarRead struct {
	dates []string
	color string
	err   error
}

// Entry renders an arbitrary month. The read is bounded by the provider's timeout.
func (p *CalendarProvider) Entry(ctx context.Context, month time.Time) domain.CalendarEntry {
	entry := p.Placeholder(month)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan calendarRead, 1)
	go func() {
		var r calendarRead
		r.dates, r.err = p.source.WorkoutDates(ctx)
		r.color = DefaultHighlightColor
		if p.kv != nil {
			r.color = snapshot.ReadString(ctx, p.kv, snapshot.KeyHighlightColor, DefaultHighlightColor)
		}
		done <- r
	}()

	select {
	case r := <-done:
		entry.HighlightColor = r.color
		if r.err != nil {
			p.log.WithError(r.err).Warn("Calendar widget falling back to an empty month")
			return entry
		}
		entry.Days = DaysOfMonth(r.dates, entry.Month)
	case <-ctx.Done():
		p.log.WithError(ctx.Err()).Warn("Calendar widget read timed out")
	}
	return entry
}

// DaysOfMonth picks the days of month out of a YYYY-MM-DD list, ascending and unique.
func DaysOfMonth(dates []string, month time.Time) []int {
	prefix := month.Format("2006-01") + "-"
	var present [32]bool
	for _, d := range dates {
		if !strings.HasPrefix(d, prefix) {
			continue
		}
		day, err := strconv.Atoi(strings.TrimPrefix(d, prefix))
		if err != nil || day < 1 || day > 31 {
			continue
		}
		present[day] = true
	}
	days := []int{}
	for d := 1; d <= 31; d++ {
		if present[d] {
			days = append(days, d)
		}
	}
	return days
}
