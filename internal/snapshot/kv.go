// Package snapshot is the publication layer between the main process and the widget.
// The main process writes small derived values into a key-value store both processes can
// reach; the widget only ever reads them.
package snapshot

import (
	"context"
	"errors"
)

// Keys shared by both processes.
const (
	KeyWorkoutDates   = "workoutDates"      // JSON array of YYYY-MM-DD strings, sorted and unique
	KeyQuote          = "quote"             // domain.CachedQuote as JSON
	KeyHighlightColor = "highlightColor"    // Calendar highlight color
	KeyReloadToken    = "widgetReloadToken" // Changes whenever the widget should re-render
)

// ErrKeyNotFound is returned by Get for keys that were never written.
var ErrKeyNotFound = errors.New("snapshot key not found")

// KV is a tiny shared key-value store. Implementations must tolerate one writer process and
// any number of reader processes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
