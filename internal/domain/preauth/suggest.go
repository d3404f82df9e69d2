package preauth

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
)

// Directory looks up candidate contractors matching a partial name or
// company string.
type Directory interface {
	Query(ctx context.Context, term string, limit int) ([]Contractor, error)
}

// Suggester runs debounced suggestion lookups against the directory. Lookups
// are single-flight per keystroke burst: each new term cancels the pending
// timer, and a response for a superseded term is dropped so it can never
// overwrite a fresher input's result.
type Suggester struct {
	dir      Directory
	deliver  func(term string, matches []Contractor)
	debounce time.Duration
	limit    int
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewSuggester creates a suggester that invokes deliver with ranked matches.
func NewSuggester(dir Directory, debounce time.Duration, limit int, deliver func(term string, matches []Contractor), logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{
		dir:      dir,
		deliver:  deliver,
		debounce: debounce,
		limit:    limit,
		logger:   logger,
	}
}

// Trigger schedules a lookup for the given input after the debounce window.
// Inputs shorter than two characters clear the suggestions immediately.
func (s *Suggester) Trigger(ctx context.Context, input string) {
	term := Sanitize(input)

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if len(term) < 2 {
		s.deliver(term, nil)
		return
	}

	s.mu.Lock()
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fetch(ctx, term, gen)
	})
	s.mu.Unlock()
}

// Close cancels any pending lookup.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Suggester) fetch(ctx context.Context, term string, gen uint64) {
	matches, err := s.dir.Query(ctx, term, s.limit)
	if err != nil {
		s.logger.Warn("suggestion lookup failed", "term", term, "error", err)
		return
	}
	Rank(matches, term)

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}
	s.deliver(term, matches)
}

// Rank orders candidates by edit distance of the term to the closer of name
// and company. The sort is stable so directory order breaks ties.
func Rank(matches []Contractor, term string) {
	lowered := strings.ToLower(term)
	sort.SliceStable(matches, func(i, j int) bool {
		return distance(matches[i], lowered) < distance(matches[j], lowered)
	})
}

func distance(c Contractor, term string) int {
	d := levenshtein.ComputeDistance(term, strings.ToLower(c.Name))
	if cd := levenshtein.ComputeDistance(term, strings.ToLower(c.Company)); cd < d {
		d = cd
	}
	return d
}

// Sanitize trims an input term and strips SQL LIKE wildcards so user input
// cannot widen the directory query. Trigger applies it before scheduling;
// deliveries always carry the sanitized term.
func Sanitize(input string) string {
	return strings.TrimSpace(strings.NewReplacer("%", "", "_", "").Replace(input))
}
