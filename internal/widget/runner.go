package widget

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Frame is everything the widget host needs for one render pass.
type Frame struct {
	RenderedAt time.Time                             `json:"renderedAt"`
	Calendar   domain.Timeline[domain.CalendarEntry] `json:"calendar"`
	Quote      domain.Timeline[domain.QuoteEntry]    `json:"quote"`
}

// NextRefresh is the earlier of the two timelines' refresh points.
func (f Frame) NextRefresh() time.Time {
	if f.Quote.NextRefresh.Before(f.Calendar.NextRefresh) {
		return f.Quote.NextRefresh
	}
	return f.Calendar.NextRefresh
}

// Runner renders frames until its context ends. A new frame is emitted when a timeline asks
// to be refreshed or when the main process changes the reload token.
type Runner struct {
	Calendar     *CalendarProvider
	Quote        *QuoteProvider
	KV           snapshot.KV // Reload token source; may be nil
	Out          io.Writer
	PollInterval time.Duration
	Clock        func() time.Time
	Log          logrus.FieldLogger
}

// Render builds one frame at now.
func (r *Runner) Render(ctx context.Context, now time.Time) Frame {
	return Frame{
		RenderedAt: now,
		Calendar:   r.Calendar.Timeline(ctx, now),
		Quote:      r.Quote.Timeline(ctx, now),
	}
}

// Run blocks until ctx is cancelled or the output can no longer be written.
func (r *Runner) Run(ctx context.Context) error {
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	poll := r.PollInterval
	if poll <= 0 {
		poll = time.Minute
	}
	enc := json.NewEncoder(r.Out)

	token := r.reloadToken(ctx)
	for {
		now := clock()
		frame := r.Render(ctx, now)
		if err := enc.Encode(frame); err != nil {
			return errors.Wrap(err, "write widget frame")
		}

		reason, err := r.wait(ctx, frame.NextRefresh().Sub(now), poll, &token)
		if err != nil {
			return nil
		}
		r.Log.WithField("reason", reason).Debug("Re-rendering widget")
	}
}

func (r *Runner) wait(ctx context.Context, until, poll time.Duration, token *string) (string, error) {
	if until < 0 {
		until = 0
	}
	timer := time.NewTimer(until)
	defer timer.Stop()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
			return "timeline", nil
		case <-ticker.C:
			current := r.reloadToken(ctx)
			if current != *token {
				*token = current
				return "reload", nil
			}
		}
	}
}

func (r *Runner) reloadToken(ctx context.Context) string {
	if r.KV == nil {
		return ""
	}
	return snapshot.ReadString(ctx, r.KV, snapshot.KeyReloadToken, "")
}
