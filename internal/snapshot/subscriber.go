package snapshot

import (
	"log/slog"
	"sync"

	"github.com/oakline/gatehouse/internal/repository"
)

// Subscriber consumes one live change stream and reconciles every event
// into the snapshot. One subscriber runs per record collection.
type Subscriber struct {
	store   *Store
	logger  *slog.Logger
	dispose func()
	done    chan struct{}
	once    sync.Once
}

// NewSubscriber starts the reconciliation loop over the given event channel.
// dispose is the stream's unsubscribe handle; Close invokes it exactly once.
func NewSubscriber(events <-chan repository.ChangeEvent, dispose func(), store *Store, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	sub := &Subscriber{
		store:   store,
		logger:  logger,
		dispose: dispose,
		done:    make(chan struct{}),
	}
	go sub.run(events)
	return sub
}

func (s *Subscriber) run(events <-chan repository.ChangeEvent) {
	defer close(s.done)
	for ev := range events {
		s.store.Reconcile(ev)
		s.logger.Debug("change event reconciled", "kind", ev.Kind, "id", ev.ID)
	}
}

// Close releases the subscription and waits for the loop to drain. Safe to
// call more than once; the unsubscribe handle fires only on the first call.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		if s.dispose != nil {
			s.dispose()
		}
	})
	<-s.done
}
