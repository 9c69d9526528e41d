package widget_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/log"
	"alcyxob/workout-tracker/internal/snapshot"
	"alcyxob/workout-tracker/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the test read what the runner goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) frames(t *testing.T) []widget.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []widget.Frame
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		var f widget.Frame
		require.NoError(t, json.Unmarshal(sc.Bytes(), &f))
		out = append(out, f)
	}
	return out
}

func TestRunnerRerendersOnReload(t *testing.T) {
	kv := newKV(t)
	srv, _ := quoteServer(t, http.StatusOK, `[{"content":"Lift.","author":"Coach"}]`)
	publisher := snapshot.NewPublisher(kv, time.UTC, log.Discard())
	publisher.Publish(context.Background(), []domain.Workout{{Date: widgetNow}})

	out := &syncBuffer{}
	r := &widget.Runner{
		Calendar:     widget.NewCalendarProvider(widget.NewSnapshotSource(kv), kv, time.Second, log.Discard()),
		Quote:        widget.NewQuoteProvider(kv, srv.Client(), srv.URL, time.UTC, log.Discard()),
		KV:           kv,
		Out:          out,
		PollInterval: 10 * time.Millisecond,
		Clock:        func() time.Time { return widgetNow },
		Log:          log.Discard(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(out.frames(t)) == 1 }, 2*time.Second, 5*time.Millisecond)
	first := out.frames(t)[0]
	assert.Equal(t, []int{18}, first.Calendar.Entries[0].Days)
	assert.Equal(t, "Lift.", first.Quote.Entries[0].Quote)

	publisher.Publish(context.Background(), []domain.Workout{{Date: widgetNow}, {Date: widgetNow.AddDate(0, 0, -3)}})
	require.Eventually(t, func() bool { return len(out.frames(t)) >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{15, 18}, out.frames(t)[1].Calendar.Entries[0].Days)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestFrameNextRefreshIsEarliest(t *testing.T) {
	f := widget.Frame{}
	f.Calendar.NextRefresh = widgetNow.Add(2 * time.Hour)
	f.Quote.NextRefresh = widgetNow.Add(time.Hour)
	assert.Equal(t, widgetNow.Add(time.Hour), f.NextRefresh())
}
