package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/snapshot"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultQuoteURL is the remote quote endpoint.
const DefaultQuoteURL = "https://api.realinspire.live/v1/quotes/random?maxLength=120"

// DefaultQuote is shown whenever no quote can be fetched.
var DefaultQuote = domain.CachedQuote{
	Content: "The only bad workout is the one that didn't happen.",
	Author:  "Unknown",
}

// QuoteProvider produces motivational quote entries, fetching at most once per calendar
// day and caching the result in the shared store.
type QuoteProvider struct {
	kv     snapshot.KV // May be nil; then nothing is cached
	client *http.Client
	url    string
	loc    *time.Location
	log    logrus.FieldLogger
}

func NewQuoteProvider(kv snapshot.KV, client *http.Client, url string, loc *time.Location, log logrus.FieldLogger) *QuoteProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if url == "" {
		url = DefaultQuoteURL
	}
	if loc == nil {
		loc = time.Local
	}
	return &QuoteProvider{kv: kv, client: client, url: url, loc: loc, log: log}
}

func (p *QuoteProvider) Placeholder(now time.Time) domain.QuoteEntry {
	return domain.QuoteEntry{Date: now, Quote: DefaultQuote.Content, Author: DefaultQuote.Author}
}

// Snapshot returns today's quote: from the cache when it was fetched today, otherwise
// from the endpoint, otherwise the default.
func (p *QuoteProvider) Snapshot(ctx context.Context, now time.Time) domain.QuoteEntry {
	q := p.Quote(ctx, now)
	return domain.QuoteEntry{Date: now, Quote: q.Content, Author: q.Author}
}

func (p *QuoteProvider) Timeline(ctx context.Context, now time.Time) domain.Timeline[domain.QuoteEntry] {
	return domain.Timeline[domain.QuoteEntry]{
		Entries:     []domain.QuoteEntry{p.Snapshot(ctx, now)},
		NextRefresh: domain.StartOfNextDay(now),
	}
}

// Quote resolves today's quote.
func (p *QuoteProvider) Quote(ctx context.Context, now time.Time) domain.CachedQuote {
	today := now.In(p.loc).Format(domain.DayLayout)

	if cached, ok := p.cached(ctx); ok && cached.CachedOn == today {
		return cached
	}

	fetched, err := p.fetch(ctx)
	if err != nil {
		p.log.WithError(err).Warn("Using default quote")
		return DefaultQuote
	}
	fetched.CachedOn = today
	p.store(ctx, fetched)
	return fetched
}

func (p *QuoteProvider) cached(ctx context.Context) (domain.CachedQuote, bool) {
	if p.kv == nil {
		return domain.CachedQuote{}, false
	}
	data, err := p.kv.Get(ctx, snapshot.KeyQuote)
	if err != nil {
		return domain.CachedQuote{}, false
	}
	var q domain.CachedQuote
	if err := json.Unmarshal(data, &q); err != nil || q.Content == "" {
		return domain.CachedQuote{}, false
	}
	return q, true
}

func (p *QuoteProvider) store(ctx context.Context, q domain.CachedQuote) {
	if p.kv == nil {
		return
	}
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := p.kv.Set(ctx, snapshot.KeyQuote, data); err != nil {
		p.log.WithError(err).Warn("Failed to cache quote")
	}
}

type remoteQuote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

func (p *QuoteProvider) fetch(ctx context.Context) (domain.CachedQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return domain.CachedQuote{}, errors.Wrap(err, "build quote request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.CachedQuote{}, errors.Wrap(err, "fetch quote")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CachedQuote{}, fmt.Errorf("quote endpoint answered %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return domain.CachedQuote{}, errors.Wrap(err, "read quote")
	}

	var quotes []remoteQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return domain.CachedQuote{}, errors.Wrap(err, "decode quote")
	}
	for _, q := range quotes {
		content, author := strings.TrimSpace(q.Content), strings.TrimSpace(q.Author)
		if content != "" && author != "" {
			return domain.CachedQuote{Content: content, Author: author}, nil
		}
	}
	return domain.CachedQuote{}, errors.New("quote response has no usable entry")
}
