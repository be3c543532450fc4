package notify

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-booking/utils"
)

// Notification is a message for the admin audience.
type Notification struct {
	Heading string
	Content string
}

type Provider interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Notifier is what callers depend on: hand off a notification and move on.
type Notifier interface {
	Notify(n Notification)
}

// Dispatcher fans a notification out to every provider in the background.
// Failures are logged and dropped; there is no retry.
type Dispatcher struct {
	providers []Provider
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, providers ...Provider) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{providers: providers, timeout: timeout}
}

func (d *Dispatcher) Notify(n Notification) {
	for _, p := range d.providers {
		d.wg.Add(1)
		go func(p Provider) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := p.Send(ctx, n); err != nil {
				utils.ErrorLogger.Printf("notification via %s failed: %v", p.Name(), err)
			}
		}(p)
	}
}

// Wait blocks until in-flight sends finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

type LogProvider struct{}

func (LogProvider) Name() string { return "log" }

func (LogProvider) Send(_ context.Context, n Notification) error {
	utils.InfoLogger.Printf("notification: %s | %s", n.Heading, n.Content)
	return nil
}

type Noop struct{}

func (Noop) Notify(Notification) {}
