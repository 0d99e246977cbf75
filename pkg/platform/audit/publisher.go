package audit

import (
	"context"
	"sync"
)

// Publisher emits events to a store, synchronously by default or through a
// buffered channel when configured async. Emit never blocks request handling
// in async mode: a full buffer drops the event.
type Publisher struct {
	store Store

	inbox  chan Event
	wg     sync.WaitGroup
	closed chan struct{}
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous delivery with the
// given buffer size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, closed: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			// flush what is already queued
			for {
				select {
				case event := <-p.inbox:
					_ = p.store.Append(context.Background(), event)
				default:
					return
				}
			}
		case event := <-p.inbox:
			_ = p.store.Append(context.Background(), event)
		}
	}
}

// Emit records one event. In async mode a full buffer drops the event rather
// than stalling the caller.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
	default:
	}
	return nil
}

// Close stops the async drain loop, flushing queued events first.
func (p *Publisher) Close() {
	select {
	case <-p.closed:
		return
	default:
		close(p.closed)
	}
	p.wg.Wait()
}
