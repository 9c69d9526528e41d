package widget

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Layouts the SQLite driver may hand back for a DATETIME column read as text.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	domain.DayLayout,
}

// StoreSource opens the shared SQLite store read-only for each read and lists the days
// that have workouts. The connection is short-lived so the widget never holds the file.
type StoreSource struct {
	path string
	loc  *time.Location
}

// NewStoreSource reads the store at path; days are computed in loc.
func NewStoreSource(path string, loc *time.Location) *StoreSource {
	if loc == nil {
		loc = time.Local
	}
	return &StoreSource{path: path, loc: loc}
}

func (s *StoreSource) WorkoutDates(ctx context.Context) ([]string, error) {
	// Opening read-only never creates the file; check first for a clear error.
	if _, err := os.Stat(s.path); err != nil {
		return nil, errors.Wrap(err, "shared store unavailable")
	}

	db, err := sqlx.Open("sqlite", "file:"+s.path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open shared store")
	}
	defer db.Close()

	var raw []string
	if err := db.SelectContext(ctx, &raw, `SELECT date FROM workouts`); err != nil {
		return nil, errors.Wrap(err, "query workout dates")
	}

	seen := make(map[string]struct{}, len(raw))
	dates := make([]string, 0, len(raw))
	for _, r := range raw {
		t, err := parseStoredTime(r)
		if err != nil {
			continue
		}
		d := t.In(s.loc).Format(domain.DayLayout)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func parseStoredTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised time %q", v)
}
