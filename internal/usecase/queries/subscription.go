package queries

import "sync"

// Subscription is a live agenda feed. The receiver must call Close when it
// stops reading; Close is idempotent and waits for the feed to shut down.
type Subscription struct {
	updates <-chan AgendaSnapshot
	cancel  func()
	done    <-chan struct{}
	once    sync.Once
}

// NewSubscription wraps an externally driven feed. cancel may be nil.
func NewSubscription(updates <-chan AgendaSnapshot, cancel func()) *Subscription {
	return &Subscription{updates: updates, cancel: cancel}
}

// Updates yields snapshots, newest wins. It is closed when the subscription ends.
func (s *Subscription) Updates() <-chan AgendaSnapshot {
	return s.updates
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.done != nil {
			<-s.done
		}
	})
}

// offerLatest replaces any undelivered snapshot with snap. Only the single
// producer goroutine may call it.
func offerLatest(out chan AgendaSnapshot, snap AgendaSnapshot) {
	for {
		select {
		case out <- snap:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
