package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/snapshot"
	"alcyxob/workout-tracker/internal/widget"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Render modes, matching the host's three widget triggers.
const (
	modePlaceholder = "placeholder"
	modeSnapshot    = "snapshot"
	modeTimeline    = "timeline"
)

type rootOptions struct {
	configDir string
	mode      string
	now       func() time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{now: time.Now})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workout-widget",
		Short:         "Render the workout calendar and quote widgets from the shared container",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configDir, "config", ".", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&opts.mode, "mode", modeTimeline, "placeholder, snapshot or timeline")

	cmd.AddCommand(
		newCalendarCmd(opts),
		newQuoteCmd(opts),
		newRunCmd(opts),
	)
	return cmd
}

// widgetEnv is everything a widget command reads from.
type widgetEnv struct {
	calendar *widget.CalendarProvider
	quote    *widget.QuoteProvider
	kv       snapshot.KV
	cfg      config.Config
	log      logrus.FieldLogger
}

// openWidget wires the providers. A missing shared container is not an error: the
// providers then degrade to empty calendars and the default quote.
func openWidget(ctx context.Context, opts *rootOptions) (*widgetEnv, func(), error) {
	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}
	// stdout carries the rendered entries.
	logger := log.New(cfg.Log.Level, os.Stderr)

	var kv snapshot.KV
	cleanup := func() {}
	opened, closeKV, err := snapshot.Open(ctx, cfg.SnapshotOptions(true))
	if err != nil {
		logger.WithError(err).Warn("Widget snapshot store unavailable")
	} else {
		kv = opened
		cleanup = func() { _ = closeKV() }
	}

	// Prefer the published snapshot, fall back to reading the store itself.
	var sources []widget.DateSource
	if kv != nil {
		sources = append(sources, widget.NewSnapshotSource(kv))
	}
	sources = append(sources, widget.NewStoreSource(cfg.DatabasePath(), time.Local))

	env := &widgetEnv{
		calendar: widget.NewCalendarProvider(widget.NewFallbackSource(logger, sources...), kv, cfg.Widget.ReadTimeout, logger),
		quote: widget.NewQuoteProvider(kv, &http.Client{Timeout: cfg.Widget.QuoteTimeout},
			cfg.Widget.QuoteURL, time.Local, logger),
		kv:  kv,
		cfg: cfg,
		log: logger,
	}
	return env, cleanup, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkMode(mode string) error {
	switch mode {
	case modePlaceholder, modeSnapshot, modeTimeline:
		return nil
	}
	return errors.Errorf("unknown mode %q (want placeholder, snapshot or timeline)", mode)
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render the calendar widget entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMode(opts.mode); err != nil {
				return err
			}
			ctx := cmd.Context()
			env, cleanup, err := openWidget(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			now := opts.now()
			out := cmd.OutOrStdout()
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return errors.Errorf("--month must be formatted YYYY-MM, got %q", month)
				}
				return writeJSON(out, env.calendar.Entry(ctx, m))
			}

			switch opts.mode {
			case modePlaceholder:
				return writeJSON(out, env.calendar.Placeholder(now))
			case modeSnapshot:
				return writeJSON(out, env.calendar.Snapshot(ctx, now))
			default:
				return writeJSON(out, env.calendar.Timeline(ctx, now))
			}
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "render another month (YYYY-MM)")
	return cmd
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Render the motivational quote widget entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkMode(opts.mode); err != nil {
				return err
			}
			ctx := cmd.Context()
			env, cleanup, err := openWidget(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			now := opts.now()
			out := cmd.OutOrStdout()
			switch opts.mode {
			case modePlaceholder:
				return writeJSON(out, env.quote.Placeholder(now))
			case modeSnapshot:
				return writeJSON(out, env.quote.Snapshot(ctx, now))
			default:
				return writeJSON(out, env.quote.Timeline(ctx, now))
			}
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Keep rendering both widgets, one JSON frame per line, until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			env, cleanup, err := openWidget(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			runner := &widget.Runner{
				Calendar:     env.calendar,
				Quote:        env.quote,
				KV:           env.kv,
				Out:          cmd.OutOrStdout(),
				PollInterval: env.cfg.Widget.PollInterval,
				Clock:        opts.now,
				Log:          env.log,
			}
			return runner.Run(ctx)
		},
	}
}
