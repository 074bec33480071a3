// Package changefeed fans slot changes out to live subscribers.
package changefeed

import (
	"context"
	"log/slog"
	"sync"

	"slotbook/internal/domain/slot"
)

const DefaultBuffer = 64

// Hub never blocks a publisher. A subscriber whose buffer is full loses its
// oldest pending change and receives a resync marker instead, which makes it
// recompute from the store.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
	closed bool
	logger *slog.Logger
}

type subscriber struct {
	ch chan slot.Change
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*subscriber),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a subscriber until ctx is done. The returned channel
// is closed on unsubscribe or when the hub closes.
func (h *Hub) Subscribe(ctx context.Context) <-chan slot.Change {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan slot.Change, h.buffer)}
	if h.closed {
		close(sub.ch)
		return sub.ch
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = sub

	go func() {
		<-ctx.Done()
		h.remove(id)
	}()
	return sub.ch
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

func (h *Hub) Publish(c slot.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- c:
			continue
		default:
		}
		// Overflow: make room and ask the subscriber to recompute.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- slot.Resync():
		default:
		}
		h.logger.Debug("change subscriber overflowed", slog.Uint64("subscriber", id))
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription. Later Subscribe calls get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
