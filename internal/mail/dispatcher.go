package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrDispatcherClosed = errors.New("mail dispatcher closed")

// Dispatcher delivers messages in the background so that callers never wait
// on the mail server. Each delivery runs on its own goroutine bounded by the
// configured timeout.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	return &Dispatcher{sender: sender, timeout: timeout}
}

// Enqueue schedules msg for delivery and returns immediately.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	d.wg.Add(1)
	go d.deliver(msg)
	return nil
}

func (d *Dispatcher) deliver(msg Message) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.sender.Send(ctx, msg); err != nil {
		slog.Warn("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	slog.Debug("mail delivered", "to", msg.To, "duration", time.Since(start))
}

// Close stops accepting messages and waits for in-flight deliveries or ctx,
// whichever comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
