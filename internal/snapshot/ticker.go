package snapshot

import (
	"sync"
	"time"
)

// Ticker fires a periodic recompute signal for derived status and time
// displays. It never mutates data; consumers re-derive what they show from
// the snapshot and the tick's instant.
type Ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewTicker invokes fn with the current instant every interval until Stop.
func NewTicker(interval time.Duration, fn func(now time.Time)) *Ticker {
	t := &Ticker{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case now := <-t.ticker.C:
				fn(now)
			case <-t.done:
				return
			}
		}
	}()
	return t
}

// Stop releases the timer. Safe to call more than once.
func (t *Ticker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
