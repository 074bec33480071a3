package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"slotbook/internal/domain/slot"
	"slotbook/internal/infra/changefeed"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeChannel is the NOTIFY channel written by the slots trigger.
const ChangeChannel = "slot_changes"

const defaultReconnectDelay = time.Second

// Listener holds one dedicated connection in LISTEN mode and republishes
// every slot notification on the hub. After a reconnect it publishes a
// resync, since notifications sent while disconnected are gone.
type Listener struct {
	pool           *pgxpool.Pool
	hub            *changefeed.Hub
	logger         *slog.Logger
	reconnectDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener(pool *pgxpool.Pool, hub *changefeed.Hub, logger *slog.Logger) *Listener {
	return &Listener{
		pool:           pool,
		hub:            hub,
		logger:         logger,
		reconnectDelay: defaultReconnectDelay,
	}
}

// Start returns once LISTEN is active, so a Watch opened afterwards sees
// every later change.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan error, 1)
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(runCtx, ready)

	select {
	case err := <-ready:
		if err != nil {
			cancel()
			<-l.done
			l.cancel = nil
			return fmt.Errorf("listen %s: %w", ChangeChannel, err)
		}
		return nil
	case <-ctx.Done():
		cancel()
		<-l.done
		l.cancel = nil
		return ctx.Err()
	}
}

func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Listener) run(ctx context.Context, ready chan<- error) {
	defer close(l.done)

	for attempt := 0; ; attempt++ {
		err := l.listen(ctx, attempt, ready)
		ready = nil
		if ctx.Err() != nil {
			return
		}
		l.logger.Warn("slot change listener disconnected",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context, attempt int, ready chan<- error) error {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		if ready != nil {
			ready <- err
		}
		return err
	}
	// The connection stays in LISTEN mode, so it never goes back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		if ready != nil {
			ready <- err
		}
		return err
	}
	if ready != nil {
		ready <- nil
	}
	if attempt > 0 {
		l.hub.Publish(slot.Resync())
	}
	l.logger.Info("slot change listener connected", slog.String("channel", ChangeChannel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		c, err := DecodeChange(n.Payload)
		if err != nil {
			l.logger.Warn("undecodable slot notification", slog.String("error", err.Error()))
			l.hub.Publish(slot.Resync())
			continue
		}
		l.hub.Publish(c)
	}
}

// DecodeChange parses a slot_changes payload.
func DecodeChange(payload string) (slot.Change, error) {
	var c slot.Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return slot.Change{}, fmt.Errorf("decode slot change: %w", err)
	}
	switch c.Op {
	case slot.OpInsert:
		if c.After == nil {
			return slot.Change{}, fmt.Errorf("insert change without row image")
		}
	case slot.OpUpdate:
		if c.Before == nil || c.After == nil {
			return slot.Change{}, fmt.Errorf("update change without row images")
		}
	case slot.OpDelete:
		if c.Before == nil {
			return slot.Change{}, fmt.Errorf("delete change without row image")
		}
	default:
		return slot.Change{}, fmt.Errorf("unknown slot change op %q", c.Op)
	}
	return c, nil
}
