package httpapi

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oakline/gatehouse/internal/domain/preauth"
)

// suggestionFeed funnels keystroke requests through the debounced suggester
// so a typing burst resolves to a single directory query. Each delivery
// replaces the latest result and wakes every waiting request.
type suggestionFeed struct {
	suggester *preauth.Suggester

	mu      sync.Mutex
	term    string
	matches []preauth.Contractor
	changed chan struct{}
}

func newSuggestionFeed(dir preauth.Directory, debounce time.Duration, limit int, logger *slog.Logger) *suggestionFeed {
	f := &suggestionFeed{changed: make(chan struct{})}
	f.suggester = preauth.NewSuggester(dir, debounce, limit, f.deliver, logger)
	return f
}

func (f *suggestionFeed) deliver(term string, matches []preauth.Contractor) {
	f.mu.Lock()
	f.term = term
	f.matches = matches
	close(f.changed)
	f.changed = make(chan struct{})
	f.mu.Unlock()
}

// Lookup schedules a debounced lookup for input and waits for its delivery.
// A request superseded mid-wait by a newer input parks until its context
// ends and reports ok false; the newer request carries the result.
func (f *suggestionFeed) Lookup(ctx context.Context, input string) ([]preauth.Contractor, bool) {
	want := preauth.Sanitize(input)

	f.mu.Lock()
	wait := f.changed
	f.mu.Unlock()

	f.suggester.Trigger(ctx, input)

	for {
		select {
		case <-wait:
		case <-ctx.Done():
			return nil, false
		}
		f.mu.Lock()
		term, matches, next := f.term, f.matches, f.changed
		f.mu.Unlock()
		if term == want {
			return matches, true
		}
		wait = next
	}
}

// Close drops any pending lookup.
func (f *suggestionFeed) Close() {
	f.suggester.Close()
}
